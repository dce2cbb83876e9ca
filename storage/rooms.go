package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/vib1247-cyber/Codepulse/domain"
)

const roomColumns = "id, room_id, participants, question_id, code, language, status, start_time, end_time, created_at"

func scanRoom(row pgx.Row) (domain.Room, error) {
	var room domain.Room
	err := row.Scan(
		&room.Id,
		&room.RoomId,
		&room.Participants,
		&room.QuestionId,
		&room.Code,
		&room.Language,
		&room.Status,
		&room.StartTime,
		&room.EndTime,
		&room.CreatedAt,
	)
	return room, err
}

func wrapRoomErr(err error) error {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return domain.ErrRoomNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return fmt.Errorf("%w: %w", domain.UnexpectedDatabaseError, err)
	}
}

func (pgr *PostgresRepo) CreateRoom(ctx context.Context, roomId, creatorId, questionId string) (domain.Room, error) {
	row := pgr.pool.QueryRow(ctx,
		`INSERT INTO rooms(room_id, participants, question_id)
		 VALUES($1, ARRAY[$2]::text[], $3)
		 RETURNING `+roomColumns,
		roomId, creatorId, questionId)

	room, err := scanRoom(row)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return domain.Room{}, err
		}
		return domain.Room{}, fmt.Errorf("%w: %w", domain.UnexpectedDatabaseError, err)
	}
	return room, nil
}

func (pgr *PostgresRepo) GetRoomByRoomId(ctx context.Context, roomId string) (domain.Room, error) {
	row := pgr.pool.QueryRow(ctx,
		"SELECT "+roomColumns+" FROM rooms WHERE room_id = $1", roomId)

	room, err := scanRoom(row)
	if err != nil {
		return domain.Room{}, wrapRoomErr(err)
	}
	return room, nil
}

// AddParticipant admits userId into a room through a single conditional
// update. The guard runs at write time, so two racing joins on the last
// free slot cannot both pass: one append wins, the loser falls through
// to the diagnostic read below. Flips the room to in_progress exactly
// when the second participant lands.
func (pgr *PostgresRepo) AddParticipant(ctx context.Context, roomId, userId string) (domain.Room, error) {
	row := pgr.pool.QueryRow(ctx,
		`UPDATE rooms
		 SET participants = array_append(participants, $2),
		     status = CASE WHEN cardinality(participants) = 1 THEN 'in_progress' ELSE status END
		 WHERE room_id = $1
		   AND status = 'waiting'
		   AND cardinality(participants) < 2
		   AND NOT ($2 = ANY(participants))
		 RETURNING `+roomColumns,
		roomId, userId)

	room, err := scanRoom(row)
	if err == nil {
		return room, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.Room{}, wrapRoomErr(err)
	}

	// The conditional write matched nothing. Figure out why.
	room, err = pgr.GetRoomByRoomId(ctx, roomId)
	if err != nil {
		return domain.Room{}, err
	}
	if room.IsParticipant(userId) {
		// Rejoin by an admitted user is a no-op.
		return room, nil
	}
	if room.Status == domain.RoomCompleted {
		return domain.Room{}, domain.ErrRoomCompleted
	}
	return domain.Room{}, domain.ErrRoomFull
}

// ClaimWaitingRoom atomically appends userId to the oldest waiting room
// matching the filters and marks it in_progress. The locked subselect
// keeps concurrent claimers off the same row; a claimer that finds the
// row taken simply moves on to the next candidate.
// Returns ErrRoomNotFound when no waiting room qualifies.
func (pgr *PostgresRepo) ClaimWaitingRoom(ctx context.Context, userId string, filters domain.RoomFilters) (domain.Room, error) {
	row := pgr.pool.QueryRow(ctx,
		`UPDATE rooms
		 SET participants = array_append(participants, $1),
		     status = 'in_progress'
		 WHERE id = (
		     SELECT r.id FROM rooms r
		     JOIN questions q ON q.id = r.question_id
		     WHERE r.status = 'waiting'
		       AND cardinality(r.participants) < 2
		       AND NOT ($1 = ANY(r.participants))
		       AND ($2 = '' OR q.difficulty = $2)
		       AND ($3 = '' OR $3 = ANY(q.topics))
		     ORDER BY r.created_at
		     LIMIT 1
		     FOR UPDATE OF r SKIP LOCKED
		 )
		 RETURNING `+roomColumns,
		userId, filters.Difficulty, filters.Topic)

	room, err := scanRoom(row)
	if err != nil {
		return domain.Room{}, wrapRoomErr(err)
	}
	return room, nil
}

// UpdateRoomCode persists the shared buffer, last writer wins. An empty
// language leaves the stored language untouched.
func (pgr *PostgresRepo) UpdateRoomCode(ctx context.Context, roomId, code, language string) error {
	tag, err := pgr.pool.Exec(ctx,
		`UPDATE rooms
		 SET code = $2,
		     language = COALESCE(NULLIF($3, ''), language)
		 WHERE room_id = $1`,
		roomId, code, language)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return fmt.Errorf("%w: %w", domain.UnexpectedDatabaseError, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRoomNotFound
	}
	return nil
}

// CompleteRoom moves a room to completed and stamps its end time.
// Idempotent: completing a completed room returns it unchanged.
func (pgr *PostgresRepo) CompleteRoom(ctx context.Context, roomId string) (domain.Room, error) {
	row := pgr.pool.QueryRow(ctx,
		`UPDATE rooms
		 SET status = 'completed', end_time = now()
		 WHERE room_id = $1 AND status <> 'completed'
		 RETURNING `+roomColumns,
		roomId)

	room, err := scanRoom(row)
	if err == nil {
		return room, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.Room{}, wrapRoomErr(err)
	}
	return pgr.GetRoomByRoomId(ctx, roomId)
}
