package database

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gdbot/internal/domain/entities"
)

const recruitColumns = `id, date_s, place, max_people, note, mentor_needed, industry, author_id,
	thread_id, msg_id, participants, mentors, is_deleted, notified, created_at`

// encodeUserIDs stores an id list as a JSON array of integers.
func encodeUserIDs(ids []entities.UserID) (string, error) {
	if len(ids) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(ids)
	if err != nil {
		return "", fmt.Errorf("encode user ids: %w", err)
	}
	return string(b), nil
}

// decodeUserIDs reads a JSON id array. Blank or null columns are empty lists.
func decodeUserIDs(s string) ([]entities.UserID, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "null" {
		return nil, nil
	}
	var ids []entities.UserID
	if err := json.Unmarshal([]byte(s), &ids); err != nil {
		return nil, fmt.Errorf("decode user ids %q: %w", s, err)
	}
	return ids, nil
}

func scanRecruit(row Row) (*entities.Recruit, error) {
	var (
		r            entities.Recruit
		author       int64
		participants string
		mentors      string
		createdAt    int64
	)
	err := row.Scan(
		&r.ID, &r.DateStr, &r.Place, &r.Capacity, &r.Message, &r.MentorRequested, &r.Industry, &author,
		&r.ThreadID, &r.MessageID, &participants, &mentors, &r.Deleted, &r.NotificationSent, &createdAt,
	)
	if err != nil {
		return nil, err
	}
	r.AuthorID = entities.UserID(author)
	if r.Participants, err = decodeUserIDs(participants); err != nil {
		return nil, err
	}
	if r.Mentors, err = decodeUserIDs(mentors); err != nil {
		return nil, err
	}
	r.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &r, nil
}
