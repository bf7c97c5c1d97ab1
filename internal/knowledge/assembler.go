package knowledge

import (
	"context"
	"strconv"
	"strings"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/hylur/internal/model"
	"github.com/xxxsen/hylur/internal/pkg/timeutil"
)

const (
	DefaultPlatformName  = "Hylur"
	DefaultDocumentLimit = 10
	DefaultTableLimit    = 5
	DefaultLinkLimit     = 10

	noDescription = "No description"
	closingNote   = "Please provide a helpful response based on the user's knowledge base context. If the user asks about specific documents, tables, or links, reference them appropriately."
)

type ContextLimits struct {
	Documents uint
	Tables    uint
	Links     uint
}

// Snapshot is the slice of a knowledge base that grounds one chat message.
type Snapshot struct {
	Documents []model.Document
	Tables    []model.DataTable
	Links     []model.WebLink
}

type Assembler struct {
	store    Store
	limits   ContextLimits
	platform string
}

type AssemblerOption func(*Assembler)

// WithLimits overrides the per-collection slice sizes; zero keeps the default.
func WithLimits(limits ContextLimits) AssemblerOption {
	return func(a *Assembler) {
		if limits.Documents > 0 {
			a.limits.Documents = limits.Documents
		}
		if limits.Tables > 0 {
			a.limits.Tables = limits.Tables
		}
		if limits.Links > 0 {
			a.limits.Links = limits.Links
		}
	}
}

func WithPlatformName(name string) AssemblerOption {
	return func(a *Assembler) {
		if name = strings.TrimSpace(name); name != "" {
			a.platform = name
		}
	}
}

func NewAssembler(store Store, opts ...AssemblerOption) *Assembler {
	a := &Assembler{
		store: store,
		limits: ContextLimits{
			Documents: DefaultDocumentLimit,
			Tables:    DefaultTableLimit,
			Links:     DefaultLinkLimit,
		},
		platform: DefaultPlatformName,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Snapshot reads the three recent slices for userID. It either returns all of
// them or fails with ErrKnowledgeStoreUnavailable.
func (a *Assembler) Snapshot(ctx context.Context, userID string) (*Snapshot, error) {
	snap := &Snapshot{}
	err := fetchAll(ctx,
		func(ctx context.Context) error {
			docs, err := a.store.Documents(ctx, Query{
				OwnerID: userID,
				OrderBy: FieldUploadedAt + " desc",
				Limit:   a.limits.Documents,
				Fields:  []string{FieldID, FieldOriginalName, FieldUploadedAt},
			})
			snap.Documents = docs
			return err
		},
		func(ctx context.Context) error {
			tables, err := a.store.DataTables(ctx, Query{
				OwnerID: userID,
				OrderBy: FieldMtime + " desc",
				Limit:   a.limits.Tables,
				Fields:  []string{FieldID, FieldName, FieldDescription, FieldColumns},
			})
			snap.Tables = tables
			return err
		},
		func(ctx context.Context) error {
			links, err := a.store.WebLinks(ctx, Query{
				OwnerID: userID,
				OrderBy: FieldCtime + " desc",
				Limit:   a.limits.Links,
				Fields:  []string{FieldID, FieldTitle, FieldURL, FieldDescription},
			})
			snap.Links = links
			return err
		},
	)
	if err != nil {
		logutil.GetLogger(ctx).Error("load knowledge context failed", zap.String("user_id", userID), zap.Error(err))
		return nil, wrap(ErrKnowledgeStoreUnavailable, err)
	}
	return snap, nil
}

// Assemble renders the grounding prompt for message.
func (a *Assembler) Assemble(ctx context.Context, userID, message string) (string, error) {
	snap, err := a.Snapshot(ctx, userID)
	if err != nil {
		return "", err
	}
	return RenderContext(a.platform, snap, message), nil
}

// RenderContext is deterministic in its inputs. The message is inserted verbatim.
func RenderContext(platform string, snap *Snapshot, message string) string {
	var b strings.Builder
	b.WriteString("You are an AI assistant for the ")
	b.WriteString(platform)
	b.WriteString(" knowledge foundation platform. You have access to the user's knowledge base:\n\n")

	writeHeader(&b, "DOCUMENTS", len(snap.Documents), "PDFs")
	for _, doc := range snap.Documents {
		b.WriteString("- ")
		b.WriteString(doc.OriginalName)
		b.WriteString(" (uploaded ")
		b.WriteString(timeutil.FormatDay(doc.UploadedAt))
		b.WriteString(")\n")
	}
	b.WriteString("\n")

	writeHeader(&b, "DATA TABLES", len(snap.Tables), "tables")
	for _, table := range snap.Tables {
		b.WriteString("- ")
		b.WriteString(table.Name)
		b.WriteString(": ")
		b.WriteString(orPlaceholder(table.Description))
		b.WriteString(" (")
		b.WriteString(strconv.Itoa(len(table.Columns)))
		b.WriteString(" columns)\n")
	}
	b.WriteString("\n")

	writeHeader(&b, "WEB LINKS", len(snap.Links), "links")
	for _, link := range snap.Links {
		b.WriteString("- ")
		b.WriteString(link.Title)
		b.WriteString(": ")
		b.WriteString(link.URL)
		b.WriteString(" - ")
		b.WriteString(orPlaceholder(link.Description))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString("User's message: ")
	b.WriteString(message)
	b.WriteString("\n\n")
	b.WriteString(closingNote)
	return b.String()
}

func writeHeader(b *strings.Builder, title string, count int, unit string) {
	b.WriteString(title)
	b.WriteString(" (")
	b.WriteString(strconv.Itoa(count))
	b.WriteString(" ")
	b.WriteString(unit)
	b.WriteString("):\n")
}

func orPlaceholder(description string) string {
	if strings.TrimSpace(description) == "" {
		return noDescription
	}
	return description
}
