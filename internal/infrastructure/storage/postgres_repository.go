package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"

	"NewsletterDigest/internal/domain"
	"NewsletterDigest/internal/ports"
)

// PostgresRepository persists article interactions, junk filters, and
// tracked newsletter senders.
type PostgresRepository struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.InteractionStore = (*PostgresRepository)(nil)
var _ ports.SenderStore = (*PostgresRepository)(nil)

// Open connects to Postgres and configures the pool.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// SaveInteraction upserts the vote for one article URL. An article that
// was already marked read stays read.
func (r *PostgresRepository) SaveInteraction(ctx context.Context, in domain.Interaction) error {
	if r.db == nil {
		return nil
	}

	query, args, err := r.builder.
		Insert("article_interactions").
		Columns("article_url", "article_title", "article_source", "vote", "is_read").
		Values(in.ArticleURL, in.ArticleTitle, in.ArticleSource, in.Vote, in.IsRead).
		Suffix(`ON CONFLICT (article_url) DO UPDATE
		        SET article_title = EXCLUDED.article_title,
		            article_source = EXCLUDED.article_source,
		            vote = EXCLUDED.vote,
		            is_read = article_interactions.is_read OR EXCLUDED.is_read`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build interaction upsert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert interaction: %w", err)
	}
	return nil
}

// UpdateVote sets the vote for an existing interaction.
func (r *PostgresRepository) UpdateVote(ctx context.Context, articleURL string, vote int) error {
	if r.db == nil {
		return nil
	}

	query, args, err := r.builder.
		Update("article_interactions").
		Set("vote", vote).
		Where(sq.Eq{"article_url": articleURL}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build vote update: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update vote: %w", err)
	}
	return nil
}

// MarkRead flags an article URL as read without touching its vote.
func (r *PostgresRepository) MarkRead(ctx context.Context, articleURL string) error {
	if r.db == nil {
		return nil
	}

	query, args, err := r.builder.
		Insert("article_interactions").
		Columns("article_url", "is_read").
		Values(articleURL, true).
		Suffix(`ON CONFLICT (article_url) DO UPDATE SET is_read = TRUE`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build read update: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("mark read: %w", err)
	}
	return nil
}

// ReadArticleURLs returns every URL previously marked as read.
func (r *PostgresRepository) ReadArticleURLs(ctx context.Context) ([]string, error) {
	if r.db == nil {
		return nil, nil
	}

	query, args, err := r.builder.
		Select("article_url").
		From("article_interactions").
		Where(sq.Eq{"is_read": true}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build read query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query read articles: %w", err)
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("scan url: %w", err)
		}
		urls = append(urls, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return urls, nil
}

// JunkFilters returns all persisted filter patterns with their type.
func (r *PostgresRepository) JunkFilters(ctx context.Context) ([]domain.JunkFilter, error) {
	if r.db == nil {
		return nil, nil
	}

	query, args, err := r.builder.
		Select("pattern", "pattern_type").
		From("junk_filters").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build junk filter query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query junk filters: %w", err)
	}
	defer rows.Close()

	var filters []domain.JunkFilter
	for rows.Next() {
		var filter domain.JunkFilter
		var patternType sql.NullString
		if err := rows.Scan(&filter.Pattern, &patternType); err != nil {
			return nil, fmt.Errorf("scan junk filter: %w", err)
		}
		filter.Type = domain.PatternType(patternType.String)
		if filter.Type == "" {
			filter.Type = domain.PatternTitle
		}
		filters = append(filters, filter)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return filters, nil
}

// AddJunkFilter upserts a filter pattern, remembering which article
// triggered it.
func (r *PostgresRepository) AddJunkFilter(ctx context.Context, filter domain.JunkFilter, articleURL, articleTitle string) error {
	if r.db == nil {
		return nil
	}

	query, args, err := r.builder.
		Insert("junk_filters").
		Columns("pattern", "pattern_type", "article_url", "article_title").
		Values(strings.ToLower(filter.Pattern), string(filter.Type), articleURL, articleTitle).
		Suffix(`ON CONFLICT (pattern) DO UPDATE SET pattern_type = EXCLUDED.pattern_type`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build junk filter upsert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert junk filter: %w", err)
	}
	return nil
}

// SourceScores aggregates net vote counts per newsletter source,
// keyed by the lowercased, trimmed source identity.
func (r *PostgresRepository) SourceScores(ctx context.Context) (map[string]int, error) {
	if r.db == nil {
		return map[string]int{}, nil
	}

	query, args, err := r.builder.
		Select("article_source", "vote").
		From("article_interactions").
		Where(sq.NotEq{"vote": 0}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build score query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query source scores: %w", err)
	}
	defer rows.Close()

	scores := map[string]int{}
	for rows.Next() {
		var source string
		var vote int
		if err := rows.Scan(&source, &vote); err != nil {
			return nil, fmt.Errorf("scan score row: %w", err)
		}
		source = strings.ToLower(strings.TrimSpace(source))
		if source != "" {
			scores[source] += vote
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return scores, nil
}

// AddSender upserts a tracked newsletter sender.
func (r *PostgresRepository) AddSender(ctx context.Context, email, name string) error {
	if r.db == nil {
		return nil
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}

	query, args, err := r.builder.
		Insert("newsletter_senders").
		Columns("email", "name").
		Values(email, name).
		Suffix(`ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build sender upsert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert sender: %w", err)
	}
	return nil
}

// RemoveSender deletes a tracked sender by address.
func (r *PostgresRepository) RemoveSender(ctx context.Context, email string) error {
	if r.db == nil {
		return nil
	}

	query, args, err := r.builder.
		Delete("newsletter_senders").
		Where(sq.Eq{"email": strings.ToLower(strings.TrimSpace(email))}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build sender delete: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete sender: %w", err)
	}
	return nil
}

// Senders lists tracked senders, most recently added first.
func (r *PostgresRepository) Senders(ctx context.Context) ([]domain.Sender, error) {
	if r.db == nil {
		return nil, nil
	}

	query, args, err := r.builder.
		Select("email", "name", "created_at").
		From("newsletter_senders").
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sender query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query senders: %w", err)
	}
	defer rows.Close()

	var senders []domain.Sender
	for rows.Next() {
		var sender domain.Sender
		if err := rows.Scan(&sender.Email, &sender.Name, &sender.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan sender: %w", err)
		}
		senders = append(senders, sender)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return senders, nil
}
