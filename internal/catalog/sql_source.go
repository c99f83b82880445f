package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/interview-prep/backend/internal/config"
	"github.com/interview-prep/backend/internal/models"
	_ "github.com/lib/pq"
)

// OpenPostgres connects to the backend's database. The connection is only
// ever used for reads.
func OpenPostgres(ctx context.Context, cfg config.Database) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)

	return db, nil
}

// SQLSource reads questions and categories straight from the backend's
// tables: questions, categories and the question_categories join table.
type SQLSource struct {
	db *sql.DB
}

func NewSQLSource(db *sql.DB) *SQLSource {
	return &SQLSource{db: db}
}

const timestampFormat = `'YYYY-MM-DD"T"HH24:MI:SS'`

func (s *SQLSource) ListQuestions(ctx context.Context) ([]models.Question, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(
		`SELECT q.id, q.title, q.content, q.example_answer, q.detailed_content,
		        COALESCE(to_char(q.created_at, %[1]s), ''),
		        COALESCE(to_char(q.updated_at, %[1]s), ''),
		        c.id, c.name, c.code
		 FROM questions q
		 LEFT JOIN question_categories qc ON qc.question_id = q.id
		 LEFT JOIN categories c ON c.id = qc.category_id
		 ORDER BY q.id, c.id`, timestampFormat),
	)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	return scanQuestionsWithCategories(rows)
}

func (s *SQLSource) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, code FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Code); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

// scanQuestionsWithCategories folds one row per (question, category) pair
// into questions, keeping first-seen order and dropping duplicate
// categories. Questions without categories arrive with NULL category
// columns.
func scanQuestionsWithCategories(rows rowScanner) ([]models.Question, error) {
	questionMap := make(map[int64]*models.Question)
	seen := make(map[int64]map[int64]bool)
	var questionOrder []int64

	for rows.Next() {
		var (
			id                          int64
			q                           models.Question
			title, content              sql.NullString
			exampleAnswer, detailedText sql.NullString
			catID                       sql.NullInt64
			catName, catCode            sql.NullString
		)
		if err := rows.Scan(&id, &title, &content, &exampleAnswer, &detailedText,
			&q.CreatedAt, &q.UpdatedAt, &catID, &catName, &catCode); err != nil {
			return nil, fmt.Errorf("scan question row: %w", err)
		}
		// Legacy rows may have NULL text columns; they read as empty.
		q.Title = title.String
		q.Content = content.String
		q.ExampleAnswer = exampleAnswer.String
		q.DetailedContent = detailedText.String

		existing, ok := questionMap[id]
		if !ok {
			qid := id
			q.ID = &qid
			q.Categories = []models.Category{}
			questionMap[id] = &q
			seen[id] = make(map[int64]bool)
			questionOrder = append(questionOrder, id)
			existing = &q
		}

		if catID.Valid && !seen[id][catID.Int64] {
			seen[id][catID.Int64] = true
			existing.Categories = append(existing.Categories, models.Category{
				ID:   catID.Int64,
				Name: catName.String,
				Code: catCode.String,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	questions := make([]models.Question, 0, len(questionOrder))
	for _, id := range questionOrder {
		questions = append(questions, *questionMap[id])
	}
	return questions, nil
}
