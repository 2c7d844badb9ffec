package storage

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/lasantosr/intelli-shell/pkg/ierrors"
	"github.com/lasantosr/intelli-shell/pkg/model"
	"github.com/lasantosr/intelli-shell/pkg/ranking"
	"github.com/lasantosr/intelli-shell/pkg/tuning"
)

// SearchMode selects the command search strategy.
type SearchMode string

const (
	ModeAuto   SearchMode = "auto"
	ModeExact  SearchMode = "exact"
	ModeRegex  SearchMode = "regex"
	ModeFuzzy  SearchMode = "fuzzy"
	ModeRelaxed SearchMode = "relaxed"
)

// SearchRequest bundles a command search's inputs.
type SearchRequest struct {
	Mode        SearchMode
	UserOnly    bool
	RawQuery    string
	WorkingPath string
	TldrPlatform string // optional extra category accepted alongside user/workspace
	Tuning      tuning.CommandTuning
}

// SearchResult is either a direct alias hit or a ranked list.
type SearchResult struct {
	AliasMatch *model.Command
	Ranked     []ranking.CommandScore
}

// InsertCommand stores a new command, computing FlatCmd/FlatDescription/Tags
// and timestamps. Returns ierrors.CommandAlreadyExists when a command with
// the same cmd text is already stored; the schema has no unique index on
// cmd, so this is checked with a lookup before the insert.
func (s *Store) InsertCommand(ctx context.Context, c model.Command, flatten func(string) string) (model.Command, error) {
	if strings.TrimSpace(c.Cmd) == "" {
		return model.Command{}, ierrors.EmptyCommand
	}

	c.Cmd = model.StripNewlines(c.Cmd)
	c.FlatCmd = flatten(c.Cmd)
	c.FlatDescription = flatten(c.Description)
	c.Tags = model.ExtractTags(c.Description)
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	var exists int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM command WHERE cmd = ? LIMIT 1", c.Cmd).Scan(&exists)
	if err == nil {
		return model.Command{}, ierrors.CommandAlreadyExists
	}
	if err != sql.ErrNoRows {
		return model.Command{}, ierrors.Wrap(err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO command (id, category, source, alias, cmd, flat_cmd, description, flat_description, tags, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID.String(), c.Category, c.Source, nullableString(c.Alias), c.Cmd, c.FlatCmd,
		c.Description, c.FlatDescription, strings.Join(c.Tags, " "), c.CreatedAt.Format(time.RFC3339Nano), c.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		if isUniqueConstraintErr(err) {
			return model.Command{}, ierrors.CommandAlreadyExists
		}
		return model.Command{}, ierrors.Wrap(err)
	}
	return c, nil
}

// UpdateCommand rewrites an existing command's mutable fields, recomputing
// the flattened/derived columns and bumping UpdatedAt.
func (s *Store) UpdateCommand(ctx context.Context, c model.Command, flatten func(string) string) (model.Command, error) {
	c.Cmd = model.StripNewlines(c.Cmd)
	c.FlatCmd = flatten(c.Cmd)
	c.FlatDescription = flatten(c.Description)
	c.Tags = model.ExtractTags(c.Description)
	c.UpdatedAt = time.Now().UTC()

	res, err := s.db.ExecContext(ctx, `
		UPDATE command SET category=?, alias=?, cmd=?, flat_cmd=?, description=?, flat_description=?, tags=?, updated_at=?
		WHERE id=?`,
		c.Category, nullableString(c.Alias), c.Cmd, c.FlatCmd, c.Description, c.FlatDescription,
		strings.Join(c.Tags, " "), c.UpdatedAt.Format(time.RFC3339Nano), c.ID.String(),
	)
	if err != nil {
		if isUniqueConstraintErr(err) {
			return model.Command{}, ierrors.CommandAlreadyExists
		}
		return model.Command{}, ierrors.Wrap(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.Command{}, sql.ErrNoRows
	}
	return c, nil
}

// DeleteCommand removes a command and its usage rows (cascades).
func (s *Store) DeleteCommand(ctx context.Context, id model.ID) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM command WHERE id=?", id.String())
	return ierrors.Wrap(err)
}

// DeleteTldrCommands removes commands whose category isn't "user" or
// "workspace" (i.e. every tldr platform category), optionally restricted to
// a single category, and reports how many rows were removed.
func (s *Store) DeleteTldrCommands(ctx context.Context, category string) (int64, error) {
	query := "DELETE FROM command WHERE category NOT IN (?, ?)"
	args := []any{string(model.CategoryUser), string(model.CategoryWorkspace)}
	if category != "" {
		query += " AND category = ?"
		args = append(args, category)
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, ierrors.Wrap(err)
	}
	n, err := res.RowsAffected()
	return n, ierrors.Wrap(err)
}

// IncrementCommandUsage upserts the (command_id, path) usage counter.
func (s *Store) IncrementCommandUsage(ctx context.Context, id model.ID, path string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO command_usage (command_id, path, usage_count) VALUES (?, ?, 1)
		ON CONFLICT (command_id, path) DO UPDATE SET usage_count = usage_count + 1`,
		id.String(), path,
	)
	return ierrors.Wrap(err)
}

// Search runs a command search: tag extraction, alias short-circuit, mode
// dispatch, and (for non-exact/regex modes) blending via pkg/ranking.
func (s *Store) Search(ctx context.Context, req SearchRequest) (SearchResult, error) {
	tags, searchTerm := extractTagFilter(req.RawQuery)
	flatQuery := strings.ToLower(strings.TrimSpace(req.RawQuery))

	if hit, err := s.findAliasMatch(ctx, req.RawQuery, flatQuery); err != nil {
		return SearchResult{}, err
	} else if hit != nil {
		return SearchResult{AliasMatch: hit}, nil
	}

	categories := s.categoriesFor(req)

	var candidates []ranking.CommandCandidate
	var err error
	switch req.Mode {
	case ModeExact:
		candidates, err = s.searchExact(ctx, searchTerm, categories, tags)
	case ModeRegex:
		candidates, err = s.searchRegex(ctx, searchTerm, categories, tags)
	case ModeFuzzy:
		if strings.TrimSpace(searchTerm) == "" {
			return SearchResult{}, ierrors.InvalidFuzzy
		}
		candidates, err = s.searchBM25(ctx, prefixTerms(searchTerm), categories, tags)
	case ModeRelaxed:
		candidates, err = s.searchBM25(ctx, orTerms(searchTerm), categories, tags)
	default: // auto
		candidates, err = s.searchAuto(ctx, searchTerm, categories, tags, req.Tuning)
	}
	if err != nil {
		return SearchResult{}, err
	}

	if req.Mode == ModeExact || req.Mode == ModeRegex {
		ranked := make([]ranking.CommandScore, len(candidates))
		for i, c := range candidates {
			ranked[i] = ranking.CommandScore{Command: c.Command}
		}
		sortByRecency(ranked)
		return SearchResult{Ranked: ranked}, nil
	}

	return SearchResult{Ranked: ranking.BlendCommands(candidates, req.WorkingPath, req.Tuning)}, nil
}

// ListUserCommands returns every user-category command, ordered by creation
// time, for export. A nil filter returns all of them.
func (s *Store) ListUserCommands(ctx context.Context, filter *regexp.Regexp) ([]model.Command, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+commandColumns+" FROM command WHERE category = ? ORDER BY created_at", string(model.CategoryUser))
	if err != nil {
		return nil, ierrors.Wrap(err)
	}
	defer rows.Close()

	var out []model.Command
	for rows.Next() {
		c, err := scanCommandRows(rows)
		if err != nil {
			return nil, ierrors.Wrap(err)
		}
		if filter != nil && !filter.MatchString(c.Cmd) && !filter.MatchString(c.Description) {
			continue
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) findAliasMatch(ctx context.Context, raw, flat string) (*model.Command, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+commandColumns+" FROM command WHERE alias = ? OR alias = ? LIMIT 1", raw, flat)
	c, err := scanCommand(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, ierrors.Wrap(err)
	}
	return &c, nil
}

func (s *Store) categoriesFor(req SearchRequest) []string {
	if req.UserOnly {
		return []string{string(model.CategoryUser)}
	}
	cats := []string{string(model.CategoryUser), string(model.CategoryWorkspace)}
	if req.TldrPlatform != "" {
		cats = append(cats, req.TldrPlatform)
	}
	return cats
}

const commandColumns = "id, category, source, alias, cmd, flat_cmd, description, flat_description, tags, created_at, updated_at, rowid"

func scanCommand(row *sql.Row) (model.Command, error) {
	var c model.Command
	var id, alias, description, flatDescription, tags, createdAt, updatedAt sql.NullString
	var rowid int64
	if err := row.Scan(&id, &c.Category, &c.Source, &alias, &c.Cmd, &c.FlatCmd, &description, &flatDescription, &tags, &createdAt, &updatedAt, &rowid); err != nil {
		return model.Command{}, err
	}
	hydrated, err := hydrateCommand(id, alias, description, flatDescription, tags, createdAt, updatedAt)
	if err != nil {
		return model.Command{}, err
	}
	hydrated.Category, hydrated.Source, hydrated.Cmd, hydrated.FlatCmd = c.Category, c.Source, c.Cmd, c.FlatCmd
	return hydrated, nil
}

func scanCommandRows(rows *sql.Rows) (model.Command, error) {
	var c model.Command
	var id, alias, description, flatDescription, tags, createdAt, updatedAt sql.NullString
	var rowid int64
	if err := rows.Scan(&id, &c.Category, &c.Source, &alias, &c.Cmd, &c.FlatCmd, &description, &flatDescription, &tags, &createdAt, &updatedAt, &rowid); err != nil {
		return model.Command{}, err
	}
	hydrated, err := hydrateCommand(id, alias, description, flatDescription, tags, createdAt, updatedAt)
	if err != nil {
		return model.Command{}, err
	}
	hydrated.Category, hydrated.Source, hydrated.Cmd, hydrated.FlatCmd = c.Category, c.Source, c.Cmd, c.FlatCmd
	return hydrated, nil
}

func hydrateCommand(id, alias, description, flatDescription, tags, createdAt, updatedAt sql.NullString) (model.Command, error) {
	parsedID, err := model.ParseID(id.String)
	if err != nil {
		return model.Command{}, err
	}
	created, _ := time.Parse(time.RFC3339Nano, createdAt.String)
	updated, _ := time.Parse(time.RFC3339Nano, updatedAt.String)

	var tagList []string
	if tags.String != "" {
		tagList = strings.Fields(tags.String)
	}

	return model.Command{
		ID:              parsedID,
		Alias:           alias.String,
		Description:     description.String,
		FlatDescription: flatDescription.String,
		Tags:            tagList,
		CreatedAt:       created,
		UpdatedAt:       updated,
	}, nil
}

func (s *Store) searchExact(ctx context.Context, term string, categories, tags []string) ([]ranking.CommandCandidate, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM command
		WHERE category IN (%s) AND (flat_cmd LIKE ? OR flat_description LIKE ?)`,
		commandColumns, placeholders(len(categories)),
	)
	args := toArgs(categories)
	pattern := "%" + strings.ToLower(term) + "%"
	args = append(args, pattern, pattern)
	return s.queryCandidates(ctx, query, args, tags)
}

func (s *Store) searchRegex(ctx context.Context, pattern string, categories, tags []string) ([]ranking.CommandCandidate, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, ierrors.InvalidRegex
	}
	query := fmt.Sprintf(`SELECT %s FROM command WHERE category IN (%s)`, commandColumns, placeholders(len(categories)))
	all, err := s.queryCandidates(ctx, query, toArgs(categories), nil)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, c := range all {
		if re.MatchString(c.Command.Cmd) || re.MatchString(c.Command.Description) {
			out = append(out, c)
		}
	}
	return filterByTags(out, tags), nil
}

func (s *Store) searchBM25(ctx context.Context, ftsQuery string, categories, tags []string) ([]ranking.CommandCandidate, error) {
	query := fmt.Sprintf(`
		SELECT %s, bm25(command_fts, ?, ?) AS rel FROM command
		JOIN command_fts ON command_fts.rowid = command.rowid
		WHERE command_fts MATCH ? AND category IN (%s)`,
		commandColumnsWithoutRowid(), placeholders(len(categories)),
	)
	ct, _ := tuning.Default()
	args := []any{ct.Text.Command, ct.Text.Description, ftsQuery}
	args = append(args, toArgs(categories)...)
	return s.queryCandidatesWithRelevance(ctx, query, args, tags)
}

// searchAuto blends prefix/fuzzy/relaxed strategies, applying a root-match
// boost when the first query term matches the start of flat_cmd.
func (s *Store) searchAuto(ctx context.Context, term string, categories, tags []string, t tuning.CommandTuning) ([]ranking.CommandCandidate, error) {
	fuzzy, err := s.searchBM25(ctx, prefixTerms(term), categories, tags)
	if err != nil {
		return nil, err
	}
	relaxed, err := s.searchBM25(ctx, orTerms(term), categories, tags)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*ranking.CommandCandidate)
	for i := range fuzzy {
		fuzzy[i].Relevance *= t.Fuzzy
		c := fuzzy[i]
		byID[c.Command.ID.String()] = &c
	}
	for _, c := range relaxed {
		c.Relevance *= t.Relaxed
		if existing, ok := byID[c.Command.ID.String()]; ok {
			existing.Relevance += c.Relevance
		} else {
			cc := c
			byID[c.Command.ID.String()] = &cc
		}
	}

	out := make([]ranking.CommandCandidate, 0, len(byID))
	var rootToken string
	if fields := strings.Fields(strings.ToLower(term)); len(fields) > 0 {
		rootToken = fields[0]
	}
	for _, c := range byID {
		if rootToken != "" && strings.HasPrefix(c.Command.FlatCmd, rootToken) {
			c.Relevance += t.Root
		}
		out = append(out, *c)
	}
	return out, nil
}

func (s *Store) queryCandidates(ctx context.Context, query string, args []any, tags []string) ([]ranking.CommandCandidate, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, ierrors.Wrap(err)
	}
	defer rows.Close()

	var out []ranking.CommandCandidate
	for rows.Next() {
		c, err := scanCommandRows(rows)
		if err != nil {
			return nil, ierrors.Wrap(err)
		}
		usage, err := s.usageFor(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, ranking.CommandCandidate{Command: c, Usage: usage})
	}
	return filterByTags(out, tags), rows.Err()
}

func (s *Store) queryCandidatesWithRelevance(ctx context.Context, query string, args []any, tags []string) ([]ranking.CommandCandidate, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, ierrors.Wrap(err)
	}
	defer rows.Close()

	var out []ranking.CommandCandidate
	for rows.Next() {
		var c model.Command
		var id, alias, description, flatDescription, tagStr, createdAt, updatedAt sql.NullString
		var rowid int64
		var bm25 float64
		if err := rows.Scan(&id, &c.Category, &c.Source, &alias, &c.Cmd, &c.FlatCmd, &description, &flatDescription, &tagStr, &createdAt, &updatedAt, &rowid, &bm25); err != nil {
			return nil, ierrors.Wrap(err)
		}
		hydrated, err := hydrateCommand(id, alias, description, flatDescription, tagStr, createdAt, updatedAt)
		if err != nil {
			return nil, ierrors.Wrap(err)
		}
		hydrated.Category, hydrated.Source, hydrated.Cmd, hydrated.FlatCmd = c.Category, c.Source, c.Cmd, c.FlatCmd

		usage, err := s.usageFor(ctx, hydrated.ID)
		if err != nil {
			return nil, err
		}
		// sqlite's bm25() is lower-is-better; negate so higher is better, per
		// the CommandCandidate contract.
		out = append(out, ranking.CommandCandidate{Command: hydrated, Relevance: -bm25, Usage: usage})
	}
	return filterByTags(out, tags), rows.Err()
}

func (s *Store) usageFor(ctx context.Context, id model.ID) ([]ranking.UsageRow, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT path, usage_count FROM command_usage WHERE command_id = ?", id.String())
	if err != nil {
		return nil, ierrors.Wrap(err)
	}
	defer rows.Close()

	var out []ranking.UsageRow
	for rows.Next() {
		var u ranking.UsageRow
		if err := rows.Scan(&u.Path, &u.UsageCount); err != nil {
			return nil, ierrors.Wrap(err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func filterByTags(candidates []ranking.CommandCandidate, tags []string) []ranking.CommandCandidate {
	if len(tags) == 0 {
		return candidates
	}
	out := candidates[:0]
	for _, c := range candidates {
		if hasAllTags(c.Command.Tags, tags) {
			out = append(out, c)
		}
	}
	return out
}

func hasAllTags(have, want []string) bool {
	set := make(map[string]bool, len(have))
	for _, t := range have {
		set[t] = true
	}
	for _, t := range want {
		if !set[t] {
			return false
		}
	}
	return true
}

// extractTagFilter pulls #tag tokens out of a raw query, returning the
// distinct tags found and the remaining search term with tags stripped.
func extractTagFilter(raw string) (tags []string, term string) {
	tags = model.ExtractTags(raw)
	rest := raw
	for _, t := range tags {
		rest = strings.ReplaceAll(rest, t, "")
	}
	return tags, strings.Join(strings.Fields(rest), " ")
}

func prefixTerms(term string) string {
	fields := strings.Fields(term)
	for i, f := range fields {
		fields[i] = sanitizeFTSTerm(f) + "*"
	}
	return strings.Join(fields, " ")
}

func orTerms(term string) string {
	fields := strings.Fields(term)
	for i, f := range fields {
		fields[i] = sanitizeFTSTerm(f)
	}
	return strings.Join(fields, " OR ")
}

func sanitizeFTSTerm(term string) string {
	return strings.ReplaceAll(term, `"`, "")
}

func commandColumnsWithoutRowid() string {
	return "id, category, source, alias, cmd, flat_cmd, description, flat_description, tags, created_at, updated_at, command.rowid"
}

func placeholders(n int) string {
	if n == 0 {
		return "''"
	}
	parts := make([]string, n)
	for i := range parts {
		parts[i] = "?"
	}
	return strings.Join(parts, ",")
}

func toArgs(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func sortByRecency(scores []ranking.CommandScore) {
	for i := 1; i < len(scores); i++ {
		j := i
		for j > 0 && ranking.RecencyTieBreak(scores[j].Command, scores[j-1].Command) {
			scores[j], scores[j-1] = scores[j-1], scores[j]
			j--
		}
	}
}
