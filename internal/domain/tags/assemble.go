package tags

import (
	"context"
	"path/filepath"

	"github.com/corey/tagcomplete/internal/ports"
)

// Mode selects how kind labels are produced.
type Mode string

const (
	// ModeLanguage resolves the defining file's language with ctags and maps
	// the kind code through that language's kind table.
	ModeLanguage Mode = "language"
	// ModeVerbatim shows the tag file's kind field as-is, minus any
	// "kind:" style key.
	ModeVerbatim Mode = "verbatim"
)

// MenuSource selects the provenance label shown next to a candidate.
type MenuSource string

const (
	MenuFromSource  MenuSource = "source"  // base name of the defining file
	MenuFromTagFile MenuSource = "tagfile" // base name of the tag file
)

// KindResolver maps files to languages and kind codes to names.
// *meta.Resolver is the production implementation.
type KindResolver interface {
	Language(ctx context.Context, path string) string
	Kind(ctx context.Context, language, code string) string
}

// Assembler turns raw tag lines into completion candidates.
type Assembler struct {
	resolver   KindResolver
	mode       Mode
	stripScope bool
	menu       MenuSource
}

// NewAssembler creates an Assembler. resolver may be nil in ModeVerbatim.
func NewAssembler(resolver KindResolver, mode Mode, stripScope bool, menu MenuSource) *Assembler {
	if mode == "" {
		mode = ModeLanguage
	}
	if menu == "" {
		menu = MenuFromSource
	}
	return &Assembler{resolver: resolver, mode: mode, stripScope: stripScope, menu: menu}
}

// Assemble parses lines in order and returns at most budget candidates.
// Malformed lines are dropped. Kind resolution happens only for lines that
// will be emitted, so the budget also bounds ctags invocations.
func (a *Assembler) Assemble(ctx context.Context, lines []Line, budget int) ([]ports.Candidate, error) {
	candidates := make([]ports.Candidate, 0, min(len(lines), budget))
	for _, l := range lines {
		if len(candidates) >= budget {
			break
		}
		if err := ctx.Err(); err != nil {
			return candidates, err
		}
		rec, ok := ParseRecord(l)
		if !ok {
			continue
		}
		candidates = append(candidates, a.candidate(ctx, rec))
	}
	return candidates, nil
}

func (a *Assembler) candidate(ctx context.Context, rec Record) ports.Candidate {
	c := ports.Candidate{Word: rec.Name, Menu: a.menuLabel(rec)}
	switch a.mode {
	case ModeVerbatim:
		c.Word = Trail(rec.Name, ":")
		c.Kind = Trail(rec.KindCode, ":")
	default:
		if a.stripScope {
			c.Word = Trail(rec.Name, ":")
		}
		if a.resolver != nil {
			lang := a.resolver.Language(ctx, rec.DefinitionFile)
			c.Kind = a.resolver.Kind(ctx, lang, rec.KindCode)
		}
	}
	return c
}

func (a *Assembler) menuLabel(rec Record) string {
	if a.menu == MenuFromTagFile {
		return filepath.Base(rec.TagFile)
	}
	if rec.Source == "" {
		return ""
	}
	return filepath.Base(rec.Source)
}
