package database

import (
	"context"
	"fmt"
	"time"

	"gdbot/internal/domain"
	"gdbot/internal/domain/entities"
	"gdbot/internal/ports/output"
)

var _ output.RecruitRepository = (*RecruitRepository)(nil)

// RecruitRepository implements output.RecruitRepository on either dialect.
type RecruitRepository struct {
	db  DBTX
	now func() time.Time
}

func NewRecruitRepository(db DBTX) *RecruitRepository {
	return &RecruitRepository{db: db, now: time.Now}
}

func (r *RecruitRepository) Create(ctx context.Context, f entities.Fields, authorID entities.UserID, threadID string, participants []entities.UserID) (int64, error) {
	ps, err := encodeUserIDs(participants)
	if err != nil {
		return 0, err
	}
	var id int64
	err = r.db.QueryRow(ctx, `
		INSERT INTO recruits (date_s, place, max_people, note, mentor_needed, industry, author_id,
			thread_id, participants, mentors, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, '[]', ?)
		RETURNING id`,
		f.DateStr, f.Place, f.Capacity, f.Message, f.MentorRequested, f.Industry, int64(authorID),
		threadID, ps, r.now().Unix(),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create recruit: %w", err)
	}
	return id, nil
}

func (r *RecruitRepository) Get(ctx context.Context, id int64) (*entities.Recruit, error) {
	rec, err := scanRecruit(r.db.QueryRow(ctx, `SELECT `+recruitColumns+` FROM recruits WHERE id = ?`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrRecruitNotFound
		}
		return nil, fmt.Errorf("get recruit %d: %w", id, err)
	}
	return rec, nil
}

func (r *RecruitRepository) ListAll(ctx context.Context) ([]entities.Recruit, error) {
	rows, err := r.db.Query(ctx, `SELECT `+recruitColumns+` FROM recruits ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list recruits: %w", err)
	}
	defer rows.Close()

	var out []entities.Recruit
	for rows.Next() {
		rec, err := scanRecruit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan recruit: %w", err)
		}
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list recruits: %w", err)
	}
	return out, nil
}

// exec runs a single-row update and maps "no row touched" to ErrRecruitNotFound.
func (r *RecruitRepository) exec(ctx context.Context, op string, id int64, query string, args ...any) error {
	n, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s %d: %w", op, id, err)
	}
	if n == 0 {
		return domain.ErrRecruitNotFound
	}
	return nil
}

func (r *RecruitRepository) UpdateParticipants(ctx context.Context, id int64, participants []entities.UserID) error {
	ps, err := encodeUserIDs(participants)
	if err != nil {
		return err
	}
	return r.exec(ctx, "update participants", id, `UPDATE recruits SET participants = ? WHERE id = ?`, ps, id)
}

func (r *RecruitRepository) UpdateMentors(ctx context.Context, id int64, mentors []entities.UserID) error {
	ms, err := encodeUserIDs(mentors)
	if err != nil {
		return err
	}
	return r.exec(ctx, "update mentors", id, `UPDATE recruits SET mentors = ? WHERE id = ?`, ms, id)
}

func (r *RecruitRepository) UpdateFields(ctx context.Context, id int64, f entities.Fields) error {
	return r.exec(ctx, "update recruit", id, `
		UPDATE recruits
		SET date_s = ?, place = ?, max_people = ?, note = ?, mentor_needed = ?, industry = ?
		WHERE id = ?`,
		f.DateStr, f.Place, f.Capacity, f.Message, f.MentorRequested, f.Industry, id)
}

func (r *RecruitRepository) SetExternalMessageRef(ctx context.Context, id int64, messageID string) error {
	return r.exec(ctx, "set message id", id, `UPDATE recruits SET msg_id = ? WHERE id = ?`, messageID, id)
}

func (r *RecruitRepository) MarkDeleted(ctx context.Context, id int64) error {
	return r.exec(ctx, "mark deleted", id, `UPDATE recruits SET is_deleted = ? WHERE id = ?`, true, id)
}

func (r *RecruitRepository) MarkNotificationSent(ctx context.Context, id int64) error {
	return r.exec(ctx, "mark notified", id, `UPDATE recruits SET notified = ? WHERE id = ?`, true, id)
}
