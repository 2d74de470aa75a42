package repository

import (
	"context"
	"errors"
	"fmt"

	"finrag-orchestrator/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// undefinedTable is the SQLSTATE for a relation that does not exist.
const undefinedTable = "42P01"

type chunkRepository struct {
	pool *pgxpool.Pool
	dim  int
}

// NewChunkRepository creates the pgvector-backed chunk repository. dim is the
// embedding dimensionality used when creating the table.
func NewChunkRepository(pool *pgxpool.Pool, dim int) domain.ChunkRepository {
	return &chunkRepository{pool: pool, dim: dim}
}

type dbExecutor interface {
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
}

func (r *chunkRepository) getExecutor(ctx context.Context) dbExecutor {
	if tx := ExtractTx(ctx); tx != nil {
		return tx
	}
	return r.pool
}

// Search runs a cosine-distance similarity search, pre-filtered by the
// rendered predicate. A missing table is a benign empty result, not an error.
func (r *chunkRepository) Search(ctx context.Context, queryVector []float32, predicate string, limit int) ([]domain.Chunk, error) {
	rows, err := r.getExecutor(ctx).Query(ctx, searchQuery(predicate), pgvector.NewVector(queryVector), limit)
	if err != nil {
		if isUndefinedTable(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to search chunks: %w", err)
	}
	defer rows.Close()

	var chunks []domain.Chunk
	for rows.Next() {
		var c domain.Chunk
		var category string
		if err := rows.Scan(&c.ID, &c.Text, &category, &c.Date, &c.Source, &c.Amount, &c.Distance); err != nil {
			return nil, fmt.Errorf("failed to scan chunk: %w", err)
		}
		c.Category = domain.Category(category)
		chunks = append(chunks, c)
	}
	if err := rows.Err(); err != nil {
		if isUndefinedTable(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return chunks, nil
}

func (r *chunkRepository) BulkInsert(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	rows := make([][]interface{}, len(chunks))
	for i, chunk := range chunks {
		rows[i] = []interface{}{
			chunk.ID,
			chunk.Text,
			string(chunk.Category),
			chunk.Date,
			chunk.Source,
			chunk.Amount,
			chunk.Embedding,
			chunk.CreatedAt,
		}
	}

	_, err := r.getExecutor(ctx).CopyFrom(
		ctx,
		pgx.Identifier{"finance_chunks"},
		[]string{"id", "content", "category", "date", "source", "amount", "embedding", "created_at"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("failed to bulk insert chunks: %w", err)
	}
	return nil
}

func (r *chunkRepository) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS finance_chunks (
			id UUID PRIMARY KEY,
			content TEXT NOT NULL,
			category TEXT NOT NULL,
			date DATE NOT NULL,
			source TEXT NOT NULL DEFAULT '',
			amount NUMERIC,
			embedding vector(%d) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`, r.dim),
		`CREATE INDEX IF NOT EXISTS finance_chunks_embedding_idx
			ON finance_chunks USING hnsw (embedding vector_cosine_ops)`,
		`CREATE INDEX IF NOT EXISTS finance_chunks_category_date_idx
			ON finance_chunks (category, date)`,
	}

	for _, stmt := range statements {
		if _, err := r.getExecutor(ctx).Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}

// searchQuery renders the similarity search statement. The predicate is
// interpolated as-is: it only ever comes from the typed expression builder,
// which quotes every literal.
func searchQuery(predicate string) string {
	where := ""
	if predicate != "" {
		where = "WHERE " + predicate
	}
	return fmt.Sprintf(`
		SELECT id, content, category, date, source, amount, embedding <=> $1 AS distance
		FROM finance_chunks
		%s
		ORDER BY distance ASC
		LIMIT $2
	`, where)
}

func isUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == undefinedTable
}
