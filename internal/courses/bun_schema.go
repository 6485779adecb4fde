package courses

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// EnsureSchema creates the course and lesson tables when they are missing.
func EnsureSchema(ctx context.Context, db *bun.DB) error {
	for _, model := range []any{(*Course)(nil), (*Lesson)(nil)} {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("create table %T: %w", model, err)
		}
	}
	if _, err := db.NewCreateIndex().
		Model((*Lesson)(nil)).
		Index("idx_lessons_course_order").
		IfNotExists().
		Column("course_id", "lesson_order").
		Exec(ctx); err != nil {
		return fmt.Errorf("create lesson index: %w", err)
	}
	return nil
}
