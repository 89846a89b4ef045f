package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/hackideas/ideashub-e2e/internal/config"
)

// Shot is one screenshot file found in the gallery directory.
type Shot struct {
	Profile string
	Label   string
	File    string
	ModTime time.Time
}

// Gallery is the set of screenshots grouped by viewport profile.
type Gallery struct {
	Dir      string
	Profiles []config.Viewport
	Shots    map[string][]Shot
	Other    []Shot
	Findings *Run
}

// Scan collects *.png files in dir and the latest findings run from
// findingsPath, if any.
func Scan(dir, findingsPath string) (*Gallery, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	g := &Gallery{
		Dir:      dir,
		Profiles: config.Catalog(),
		Shots:    map[string][]Shot{},
	}
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".png") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		shot := parseShot(e.Name())
		shot.ModTime = info.ModTime()
		if shot.Profile == "" {
			g.Other = append(g.Other, shot)
			continue
		}
		g.Shots[shot.Profile] = append(g.Shots[shot.Profile], shot)
	}
	for _, shots := range g.Shots {
		sort.Slice(shots, func(i, j int) bool { return shots[i].Label < shots[j].Label })
	}

	if findingsPath != "" {
		f, err := Read(findingsPath)
		if err != nil {
			return nil, err
		}
		g.Findings = f.Latest()
	}
	return g, nil
}

func parseShot(name string) Shot {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	for _, v := range config.Catalog() {
		if label, ok := strings.CutPrefix(base, v.Name+"_"); ok {
			return Shot{Profile: v.Name, Label: label, File: name}
		}
	}
	return Shot{Label: base, File: name}
}

// Count returns the number of screenshots in the gallery.
func (g *Gallery) Count() int {
	n := len(g.Other)
	for _, shots := range g.Shots {
		n += len(shots)
	}
	return n
}

// Markdown renders the gallery as a review document.
func (g *Gallery) Markdown() string {
	var b strings.Builder
	b.WriteString("# Screenshot review\n\n")
	fmt.Fprintf(&b, "%d screenshots in `%s`.\n\n", g.Count(), g.Dir)

	for _, v := range g.Profiles {
		shots := g.Shots[v.Name]
		if len(shots) == 0 {
			continue
		}
		fmt.Fprintf(&b, "## %s (%dx%d)\n\n", v.Name, v.Width, v.Height)
		b.WriteString("| Label | Captured |\n|---|---|\n")
		for _, s := range shots {
			fmt.Fprintf(&b, "| [%s](%s) | %s |\n", s.Label, s.File, s.ModTime.Format(time.RFC3339))
		}
		b.WriteString("\n")
		for _, s := range shots {
			fmt.Fprintf(&b, "![%s %s](%s)\n\n", v.Name, s.Label, s.File)
		}
	}

	if len(g.Other) > 0 {
		b.WriteString("## Other\n\n")
		for _, s := range g.Other {
			fmt.Fprintf(&b, "- [%s](%s)\n", s.Label, s.File)
		}
		b.WriteString("\n")
	}

	if g.Findings != nil {
		fmt.Fprintf(&b, "## Soft findings (run %s)\n\n", g.Findings.ID)
		if len(g.Findings.Findings) == 0 {
			b.WriteString("None.\n")
		} else {
			b.WriteString("| Test | Profile | Check | Message |\n|---|---|---|---|\n")
			for _, f := range g.Findings.Findings {
				fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", f.Test, f.Profile, f.Check, escapeCell(f.Message))
			}
		}
	}
	return b.String()
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.Join(strings.Fields(s), " ")
}

// galleryPolicy allows the markup the gallery document renders to. Finding
// messages quote page text and driver errors, so everything else is stripped.
func galleryPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()

	p.AllowElements("h1", "h2", "h3", "p", "br", "ul", "ol", "li", "code", "pre", "em", "strong")

	p.AllowElements("table", "thead", "tbody", "tr", "th", "td")

	p.AllowElements("img")
	p.AllowAttrs("src", "alt").OnElements("img")

	p.AllowElements("a")
	p.AllowAttrs("href").OnElements("a")

	p.AllowURLSchemes("http", "https", "file")
	p.AllowRelativeURLs(true)
	p.RequireParseableURLs(true)
	return p
}

// HTML renders the markdown document to a standalone page. Raw HTML in the
// document is passed through goldmark and then sanitized.
func (g *Gallery) HTML() ([]byte, error) {
	md := goldmark.New(
		goldmark.WithExtensions(extension.Table),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
	var body bytes.Buffer
	if err := md.Convert([]byte(g.Markdown()), &body); err != nil {
		return nil, fmt.Errorf("rendering gallery: %w", err)
	}

	clean := galleryPolicy().SanitizeBytes(body.Bytes())

	var page bytes.Buffer
	page.WriteString("<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"><title>Screenshot review</title>")
	page.WriteString("<style>body{font-family:sans-serif;margin:2rem}img{max-width:100%;border:1px solid #ccc}td,th{padding:.25rem .5rem}</style>")
	page.WriteString("</head><body>\n")
	page.Write(clean)
	page.WriteString("</body></html>\n")
	return page.Bytes(), nil
}

// WriteIndex writes index.md and index.html into the gallery directory.
func (g *Gallery) WriteIndex() error {
	if err := os.WriteFile(filepath.Join(g.Dir, "index.md"), []byte(g.Markdown()), 0o644); err != nil {
		return fmt.Errorf("writing index.md: %w", err)
	}
	page, err := g.HTML()
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(g.Dir, "index.html"), page, 0o644); err != nil {
		return fmt.Errorf("writing index.html: %w", err)
	}
	return nil
}
