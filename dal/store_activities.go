package dal

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// linkColumns maps a link name to its kind and id columns in the activities table.
var linkColumns = map[string][2]string{
	LinkObject:        {"object_kind", "object_id"},
	LinkTarget:        {"target_kind", "target_id"},
	LinkRelatedObject: {"related_object_kind", "related_object_id"},
}

func refArgs(ref ObjectRef) []any {
	if ref.IsZero() {
		return []any{nil, nil}
	}
	return []any{string(ref.Kind), ref.Id}
}

func scanRef(kind sql.NullString, id sql.NullInt64) ObjectRef {
	if !kind.Valid || !id.Valid {
		return ObjectRef{}
	}
	return ObjectRef{ObjectKind(kind.String), id.Int64}
}

// InsertActivity stores a single activity and sets act.Id.
// If an activity with the same fid is already stored, it returns false and no error.
func (s *store) InsertActivity(act *Activity) (isNew bool, err error) {
	if act.CreatedAt.IsZero() {
		act.CreatedAt = time.Now()
	}
	args := []any{act.Uuid, nullStr(act.Fid), act.Type, act.ActorId, string(act.Payload)}
	args = append(args, refArgs(act.Object)...)
	args = append(args, refArgs(act.Target)...)
	args = append(args, refArgs(act.RelatedObject)...)
	args = append(args, act.CreatedAt.UTC())
	res, err := s.q.Exec(`INSERT INTO activities (uuid, fid, type, actor_id, payload,
		object_kind, object_id, target_kind, target_id, related_object_kind, related_object_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, args...)
	if err != nil {
		if isDuplicateKey(err) {
			return false, nil
		}
		return false, err
	}
	if act.Id, err = res.LastInsertId(); err != nil {
		return false, err
	}
	return true, nil
}

// InsertActivities stores all activities in chunked multi-row INSERTs and sets each one's Id.
// Ids are matched back by uuid, so the activities' uuids must be distinct.
func (s *store) InsertActivities(acts []*Activity) error {
	byUuid := make(map[string]*Activity, len(acts))
	for _, act := range acts {
		if _, exists := byUuid[act.Uuid]; exists {
			return fmt.Errorf("duplicate activity uuid in batch: %s", act.Uuid)
		}
		byUuid[act.Uuid] = act
		if act.CreatedAt.IsZero() {
			act.CreatedAt = time.Now()
		}
	}
	const cols = "(uuid, fid, type, actor_id, payload, object_kind, object_id, target_kind, target_id, " +
		"related_object_kind, related_object_id, created_at)"
	rowPh := "(" + placeholders(12) + ")"
	for start := 0; start < len(acts); start += bulkChunkSize {
		end := min(start+bulkChunkSize, len(acts))
		rowPhs := make([]string, 0, end-start)
		args := make([]any, 0, (end-start)*12)
		for _, act := range acts[start:end] {
			rowPhs = append(rowPhs, rowPh)
			args = append(args, act.Uuid, nullStr(act.Fid), act.Type, act.ActorId, string(act.Payload))
			args = append(args, refArgs(act.Object)...)
			args = append(args, refArgs(act.Target)...)
			args = append(args, refArgs(act.RelatedObject)...)
			args = append(args, act.CreatedAt.UTC())
		}
		query := "INSERT INTO activities " + cols + " VALUES " + strings.Join(rowPhs, ", ") + " RETURNING id, uuid"
		if err := s.assignIds(query, args, byUuid); err != nil {
			return err
		}
	}
	return nil
}

func (s *store) assignIds(query string, args []any, byUuid map[string]*Activity) error {
	rows, err := s.q.Query(query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var id int64
		var uuid string
		if err = rows.Scan(&id, &uuid); err != nil {
			return err
		}
		act, ok := byUuid[uuid]
		if !ok {
			return fmt.Errorf("insert returned unknown activity uuid: %s", uuid)
		}
		act.Id = id
	}
	return rows.Err()
}

const activityCols = `id, uuid, fid, type, actor_id, payload, object_kind, object_id,
	target_kind, target_id, related_object_kind, related_object_id, created_at`

func (s *store) getActivity(where string, arg any) (*Activity, error) {
	row := s.q.QueryRow("SELECT "+activityCols+" FROM activities WHERE "+where, arg)
	var act Activity
	var fid sql.NullString
	var payload string
	var objKind, targetKind, relKind sql.NullString
	var objId, targetId, relId sql.NullInt64
	err := row.Scan(&act.Id, &act.Uuid, &fid, &act.Type, &act.ActorId, &payload, &objKind, &objId,
		&targetKind, &targetId, &relKind, &relId, &act.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	act.Fid = fid.String
	act.Payload = []byte(payload)
	act.Object = scanRef(objKind, objId)
	act.Target = scanRef(targetKind, targetId)
	act.RelatedObject = scanRef(relKind, relId)
	return &act, nil
}

func (s *store) GetActivity(id int64) (*Activity, error) {
	return s.getActivity("id=?", id)
}

func (s *store) GetActivityByUuid(actUuid string) (*Activity, error) {
	return s.getActivity("uuid=?", actUuid)
}

// UpdateActivityLinks writes exactly the given links, each with its kind column.
// A zero ObjectRef clears the link.
func (s *store) UpdateActivityLinks(id int64, links map[string]ObjectRef) error {
	if len(links) == 0 {
		return nil
	}
	var sets []string
	var args []any
	// Fixed order keeps the statement text stable
	for _, name := range []string{LinkObject, LinkTarget, LinkRelatedObject} {
		ref, ok := links[name]
		if !ok {
			continue
		}
		cols := linkColumns[name]
		sets = append(sets, cols[0]+"=?", cols[1]+"=?")
		args = append(args, refArgs(ref)...)
	}
	if len(sets) != len(links)*2 {
		for name := range links {
			if _, ok := linkColumns[name]; !ok {
				return fmt.Errorf("unknown activity link: '%s'", name)
			}
		}
	}
	args = append(args, id)
	_, err := s.q.Exec("UPDATE activities SET "+strings.Join(sets, ", ")+" WHERE id=?", args...)
	return err
}

func (s *store) InsertInboxItems(items []*InboxItem) error {
	cols := []string{"activity_id", "actor_id", "type", "is_read"}
	return s.bulkInsert("inbox_items", cols, len(items), func(i int) []any {
		it := items[i]
		return []any{it.ActivityId, it.ActorId, it.Type, it.IsRead}
	})
}

func (s *store) GetInboxItems(activityId int64) ([]*InboxItem, error) {
	rows, err := s.q.Query(`SELECT id, activity_id, actor_id, type, is_read FROM inbox_items
		WHERE activity_id=? ORDER BY id`, activityId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := []*InboxItem{}
	for rows.Next() {
		var it InboxItem
		if err = rows.Scan(&it.Id, &it.ActivityId, &it.ActorId, &it.Type, &it.IsRead); err != nil {
			return nil, err
		}
		res = append(res, &it)
	}
	return res, rows.Err()
}

func (s *store) InsertDeliveries(deliveries []*Delivery) error {
	cols := []string{"activity_id", "inbox_url", "is_delivered", "attempts", "last_attempt_at", "next_attempt_at"}
	return s.bulkInsert("deliveries", cols, len(deliveries), func(i int) []any {
		d := deliveries[i]
		return []any{d.ActivityId, d.InboxUrl, d.IsDelivered, d.Attempts,
			nullTime(d.LastAttemptAt.UTC()), nullTime(d.NextAttemptAt.UTC())}
	})
}

// GetDeliveries returns the deliveries of an activity. With onlyPending set, it
// leaves out the ones already delivered.
func (s *store) GetDeliveries(activityId int64, onlyPending bool) ([]*Delivery, error) {
	query := `SELECT id, activity_id, inbox_url, is_delivered, attempts, last_attempt_at, next_attempt_at
		FROM deliveries WHERE activity_id=?`
	if onlyPending {
		query += " AND is_delivered=0"
	}
	query += " ORDER BY id"
	rows, err := s.q.Query(query, activityId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := []*Delivery{}
	for rows.Next() {
		var d Delivery
		var last, next sql.NullTime
		err = rows.Scan(&d.Id, &d.ActivityId, &d.InboxUrl, &d.IsDelivered, &d.Attempts, &last, &next)
		if err != nil {
			return nil, err
		}
		d.LastAttemptAt = last.Time
		d.NextAttemptAt = next.Time
		res = append(res, &d)
	}
	return res, rows.Err()
}

func (s *store) UpdateDelivery(d *Delivery) error {
	_, err := s.q.Exec(`UPDATE deliveries SET is_delivered=?, attempts=?, last_attempt_at=?, next_attempt_at=?
		WHERE id=?`, d.IsDelivered, d.Attempts, nullTime(d.LastAttemptAt.UTC()), nullTime(d.NextAttemptAt.UTC()), d.Id)
	return err
}
