package service

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"paperhub/internal/model"
)

// SearchFilter holds the optional criteria of the structured search.
// Empty fields are ignored; provided fields combine with AND.
type SearchFilter struct {
	// Text matches as a case-insensitive substring of title, subject or university.
	Text string
	// Subject matches case-insensitively on equality.
	Subject string
	// Year matches on exact string equality.
	Year string
	// Semester matches case-insensitively on equality.
	Semester string
}

// AISearchResult is the outcome of a free-text relevance query.
type AISearchResult struct {
	Papers []model.Paper
	Query  string
	Count  int
}

func (f SearchFilter) normalized() SearchFilter {
	return SearchFilter{
		Text:     strings.ToLower(strings.TrimSpace(f.Text)),
		Subject:  strings.TrimSpace(f.Subject),
		Year:     strings.TrimSpace(f.Year),
		Semester: strings.TrimSpace(f.Semester),
	}
}

// matches reports whether p satisfies every provided criterion of f.
// f must already be normalized.
func (f SearchFilter) matches(p model.Paper) bool {
	if f.Text != "" &&
		!strings.Contains(strings.ToLower(p.Title), f.Text) &&
		!strings.Contains(strings.ToLower(p.Subject), f.Text) &&
		!strings.Contains(strings.ToLower(p.University), f.Text) {
		return false
	}
	if f.Subject != "" && !strings.EqualFold(p.Subject, f.Subject) {
		return false
	}
	if f.Year != "" && p.Year != f.Year {
		return false
	}
	if f.Semester != "" && !strings.EqualFold(p.Semester, f.Semester) {
		return false
	}
	return true
}

// FilterPapers applies the structured filter, preserving order.
func FilterPapers(papers []model.Paper, f SearchFilter) []model.Paper {
	f = f.normalized()
	out := make([]model.Paper, 0, len(papers))
	for _, p := range papers {
		if f.matches(p) {
			out = append(out, p)
		}
	}
	return out
}

// MatchTerms returns the papers where any term is a substring of the
// lowercased "title subject university year" text. Terms must be lowercase.
func MatchTerms(papers []model.Paper, terms []string) []model.Paper {
	out := make([]model.Paper, 0)
	if len(terms) == 0 {
		return out
	}
	for _, p := range papers {
		text := strings.ToLower(strings.Join([]string{p.Title, p.Subject, p.University, p.Year}, " "))
		for _, term := range terms {
			if strings.Contains(text, term) {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

func (s *paperService) Search(ctx context.Context, f SearchFilter) ([]model.Paper, error) {
	ctx, span := tracer.Start(ctx, "paper.search",
		trace.WithAttributes(
			attribute.String("filter.subject", f.Subject),
			attribute.String("filter.year", f.Year),
			attribute.String("filter.semester", f.Semester),
		),
	)
	defer span.End()

	papers, err := s.repo.List(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	out := FilterPapers(papers, f)
	span.SetAttributes(attribute.Int("result.count", len(out)))
	return out, nil
}

func (s *paperService) AISearch(ctx context.Context, query string) (*AISearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrQueryRequired
	}

	ctx, span := tracer.Start(ctx, "paper.ai_search")
	defer span.End()

	papers, err := s.repo.List(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	matched := MatchTerms(papers, strings.Fields(strings.ToLower(query)))
	span.SetAttributes(attribute.Int("result.count", len(matched)))

	return &AISearchResult{
		Papers: matched,
		Query:  query,
		Count:  len(matched),
	}, nil
}
