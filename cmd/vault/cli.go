package main

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/contentvault/internal/blocks"
	"github.com/hpungsan/contentvault/internal/errors"
	"github.com/hpungsan/contentvault/internal/ops"
	"github.com/hpungsan/contentvault/internal/web"
)

// Preview output formats.
const (
	formatHTML     = "html"
	formatMarkdown = "markdown"
	formatJSON     = "json"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(d *deps) *cli.App {
	app := &cli.App{
		Name:    "vault",
		Usage:   "Personal content triage backed by Notion",
		Version: Version,
		Commands: []*cli.Command{
			serveCmd(d),
			mcpCmd(d),
			listCmd(d),
			addCmd(d),
			updateCmd(d),
			archiveCmd(d),
			previewCmd(d),
			pageIDCmd(),
			markdownCmd(d),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// serveCmd creates the serve command.
func serveCmd(d *deps) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the web dashboard",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Aliases: []string{"b"}, Usage: "Listen address (default from config)"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Usage: "Listen port (default from config)"},
		},
		Action: func(c *cli.Context) error {
			bind := d.cfg.Bind
			if c.IsSet("bind") {
				bind = c.String("bind")
			}
			port := d.cfg.Port
			if c.IsSet("port") {
				port = c.Int("port")
			}
			if port < 1 || port > 65535 {
				return outputError(errors.NewInvalidRequest(fmt.Sprintf("invalid port %d", port)))
			}

			srv := web.NewServer(web.Deps{
				Backend:  d.backend,
				Markdown: d.markdown,
				Config:   d.cfg,
				Logger:   d.logger,
				Version:  Version,
			}, bind, port)
			return web.Run(srv, d.logger)
		},
	}
}

// mcpCmd creates the mcp command.
func mcpCmd(d *deps) *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Serve MCP tools over stdio",
		Action: func(c *cli.Context) error {
			return runMCP(d)
		},
	}
}

// listCmd creates the list command.
func listCmd(d *deps) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List content items",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "type", Aliases: []string{"t"}, Usage: "Filter by type"},
			&cli.StringFlag{Name: "status", Aliases: []string{"s"}, Usage: "Filter by status"},
			&cli.StringFlag{Name: "source", Usage: "Filter by source"},
			&cli.StringFlag{Name: "search", Aliases: []string{"q"}, Usage: "Search titles"},
			&cli.StringFlag{Name: "mode", Aliases: []string{"m"}, Value: "all", Usage: "View: unread|read|favorites|all"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.List(c.Context, d.backend, ops.ListInput{
				Type:   c.String("type"),
				Status: c.String("status"),
				Source: c.String("source"),
				Search: c.String("search"),
				Mode:   c.String("mode"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(c.App.Writer, output)
		},
	}
}

// addCmd creates the add command.
func addCmd(d *deps) *cli.Command {
	return &cli.Command{
		Name:  "add",
		Usage: "Save a new content item",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "title", Required: true, Usage: "Item title"},
			&cli.StringFlag{Name: "url", Required: true, Usage: "Item URL"},
			&cli.StringFlag{Name: "type", Aliases: []string{"t"}, Usage: "Item type"},
			&cli.StringFlag{Name: "source", Usage: "Item source"},
			&cli.StringFlag{Name: "status", Aliases: []string{"s"}, Usage: "Initial status (default Inbox)"},
			&cli.StringFlag{Name: "notes", Usage: "Free-form notes"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Add(c.Context, d.backend, ops.AddInput{
				Title:  c.String("title"),
				URL:    c.String("url"),
				Type:   c.String("type"),
				Source: c.String("source"),
				Status: c.String("status"),
				Notes:  c.String("notes"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(c.App.Writer, output)
		},
	}
}

// updateCmd creates the update command.
func updateCmd(d *deps) *cli.Command {
	return &cli.Command{
		Name:      "update",
		Usage:     "Change an item's status or favorite flag",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "status", Aliases: []string{"s"}, Usage: "New status"},
			&cli.BoolFlag{Name: "favorite", Aliases: []string{"f"}, Usage: "Favorite flag (--favorite=false to clear)"},
		},
		Action: func(c *cli.Context) error {
			input := ops.UpdateInput{ID: c.Args().First()}
			if c.IsSet("status") {
				status := c.String("status")
				input.Status = &status
			}
			if c.IsSet("favorite") {
				favorite := c.Bool("favorite")
				input.Favorite = &favorite
			}

			output, err := ops.Update(c.Context, d.backend, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(c.App.Writer, output)
		},
	}
}

// archiveCmd creates the archive command.
func archiveCmd(d *deps) *cli.Command {
	return &cli.Command{
		Name:      "archive",
		Usage:     "Archive an item",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			output, err := ops.Archive(c.Context, d.backend, ops.ArchiveInput{ID: c.Args().First()})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(c.App.Writer, output)
		},
	}
}

// previewCmd creates the preview command.
func previewCmd(d *deps) *cli.Command {
	return &cli.Command{
		Name:      "preview",
		Usage:     "Render a Notion page",
		ArgsUsage: "<url>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: formatHTML, Usage: "Output format: html|markdown|json"},
		},
		Action: func(c *cli.Context) error {
			format := strings.ToLower(c.String("format"))
			switch format {
			case formatHTML, formatMarkdown, formatJSON:
			default:
				return outputError(errors.NewInvalidRequest("format must be html, markdown, or json"))
			}

			output, err := ops.Preview(c.Context, d.backend, ops.PreviewInput{URL: c.Args().First()})
			if err != nil {
				return outputError(err)
			}

			switch format {
			case formatJSON:
				return outputJSON(c.App.Writer, output)
			case formatMarkdown:
				md, err := blocks.RenderMarkdown(output.Blocks)
				if err != nil {
					return outputError(errors.NewInternal(err))
				}
				return outputText(c.App.Writer, md)
			default:
				return outputText(c.App.Writer, output.HTML)
			}
		},
	}
}

// pageIDCmd creates the page-id command.
func pageIDCmd() *cli.Command {
	return &cli.Command{
		Name:      "page-id",
		Usage:     "Print the canonical page id for a Notion URL",
		ArgsUsage: "<url>",
		Action: func(c *cli.Context) error {
			output, err := ops.PageID(ops.PageIDInput{URL: c.Args().First()})
			if err != nil {
				return outputError(err)
			}
			return outputText(c.App.Writer, output.ID)
		},
	}
}

// markdownCmd creates the markdown command.
func markdownCmd(d *deps) *cli.Command {
	return &cli.Command{
		Name:      "markdown",
		Usage:     "Fetch a markdown file (Drive links and HTML pages are handled)",
		ArgsUsage: "<url>",
		Action: func(c *cli.Context) error {
			output, err := ops.FetchMarkdown(c.Context, d.markdown, ops.MarkdownInput{URL: c.Args().First()})
			if err != nil {
				return outputError(err)
			}
			return outputText(c.App.Writer, output.Content)
		},
	}
}

// Helper functions

// outputJSON writes v as indented JSON.
func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputText writes s followed by a newline.
func outputText(w io.Writer, s string) error {
	_, err := fmt.Fprintln(w, strings.TrimRight(s, "\n"))
	return err
}

// outputError formats error for CLI.
func outputError(err error) error {
	var vErr *errors.VaultError
	if stderrors.As(err, &vErr) {
		return cli.Exit(fmt.Sprintf("[%s] %s", vErr.Code, vErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}
