package jobs

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// AddVoice registers a cloned voice in the local catalog.
func (s *Store) AddVoice(ctx context.Context, voice Voice) error {
	if strings.TrimSpace(voice.VoiceID) == "" {
		return errors.New("voice id required")
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.execWithRetry(ctx,
		`INSERT INTO voices (voice_id, name, description, created_at) VALUES (?, ?, ?, ?)`,
		voice.VoiceID, voice.Name, voice.Description, now)
	if err != nil {
		return fmt.Errorf("insert voice: %w", err)
	}
	return nil
}

// ListVoices returns the cloned voice catalog, newest first.
func (s *Store) ListVoices(ctx context.Context) ([]Voice, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT voice_id, name, description, created_at FROM voices ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list voices: %w", err)
	}
	defer rows.Close()

	var voices []Voice
	for rows.Next() {
		var voice Voice
		var createdRaw string
		if err := rows.Scan(&voice.VoiceID, &voice.Name, &voice.Description, &createdRaw); err != nil {
			return nil, fmt.Errorf("scan voice: %w", err)
		}
		voice.CreatedAt = parseTimestamp(createdRaw)
		voices = append(voices, voice)
	}
	return voices, rows.Err()
}

// GetVoice fetches one cloned voice. A missing voice returns (nil, nil).
func (s *Store) GetVoice(ctx context.Context, voiceID string) (*Voice, error) {
	voices, err := s.ListVoices(ctx)
	if err != nil {
		return nil, err
	}
	for i := range voices {
		if voices[i].VoiceID == voiceID {
			return &voices[i], nil
		}
	}
	return nil, nil
}

// DeleteVoice removes a cloned voice from the local catalog. The provider
// keeps its copy; deletion only affects what this daemon offers.
func (s *Store) DeleteVoice(ctx context.Context, voiceID string) (bool, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM voices WHERE voice_id = ?`, voiceID)
	if err != nil {
		return false, fmt.Errorf("delete voice: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete voice: %w", err)
	}
	return affected > 0, nil
}
