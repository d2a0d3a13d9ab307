package dal

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const actorCols = `a.id, a.fid, a.preferred_username, a.domain, a.type, a.inbox_url, a.outbox_url,
	a.shared_inbox_url, a.followers_url, a.is_local, a.user_id, a.public_key, a.created_at, a.last_fetched_at`

func scanActor(row scanner) (*Actor, error) {
	var a Actor
	var sharedInbox sql.NullString
	var userId sql.NullInt64
	var lastFetched sql.NullTime
	err := row.Scan(&a.Id, &a.Fid, &a.PreferredUsername, &a.Domain, &a.Type, &a.InboxUrl, &a.OutboxUrl,
		&sharedInbox, &a.FollowersUrl, &a.IsLocal, &userId, &a.PublicKey, &a.CreatedAt, &lastFetched)
	if err != nil {
		return nil, err
	}
	a.SharedInboxUrl = sharedInbox.String
	a.UserId = userId.Int64
	a.LastFetchedAt = lastFetched.Time
	return &a, nil
}

func (s *store) queryActors(query string, args ...any) ([]*Actor, error) {
	rows, err := s.q.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := []*Actor{}
	for rows.Next() {
		a, err := scanActor(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, a)
	}
	return res, rows.Err()
}

func (s *store) getActor(where string, args ...any) (*Actor, error) {
	row := s.q.QueryRow("SELECT "+actorCols+" FROM actors a WHERE "+where, args...)
	a, err := scanActor(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return a, err
}

func (s *store) CreateUser(username string, createdAt time.Time) (int64, error) {
	res, err := s.q.Exec("INSERT INTO users (username, created_at) VALUES (?, ?)", username, createdAt.UTC())
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// AddActorIfNotExist inserts the actor unless one with the same fid is already stored.
// On return actor.Id is set in both cases.
func (s *store) AddActorIfNotExist(actor *Actor) (isNew bool, err error) {
	if actor.CreatedAt.IsZero() {
		actor.CreatedAt = time.Now()
	}
	res, err := s.q.Exec(`INSERT INTO actors (fid, preferred_username, domain, type, inbox_url, outbox_url,
		shared_inbox_url, followers_url, is_local, user_id, public_key, created_at, last_fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		actor.Fid, actor.PreferredUsername, actor.Domain, actor.Type, actor.InboxUrl, actor.OutboxUrl,
		nullStr(actor.SharedInboxUrl), actor.FollowersUrl, actor.IsLocal, nullInt(actor.UserId), actor.PublicKey,
		actor.CreatedAt.UTC(), nullTime(actor.LastFetchedAt.UTC()))
	if err != nil {
		if !isDuplicateKey(err) {
			return false, err
		}
		row := s.q.QueryRow("SELECT id FROM actors WHERE fid=?", actor.Fid)
		if err = row.Scan(&actor.Id); err != nil {
			return false, err
		}
		return false, nil
	}
	if actor.Id, err = res.LastInsertId(); err != nil {
		return false, err
	}
	return true, nil
}

// UpdateRemoteActor refreshes the addressing and key of an actor from a freshly fetched document.
func (s *store) UpdateRemoteActor(actor *Actor) error {
	_, err := s.q.Exec(`UPDATE actors SET preferred_username=?, domain=?, type=?, inbox_url=?, outbox_url=?,
		shared_inbox_url=?, followers_url=?, public_key=?, last_fetched_at=? WHERE fid=? AND is_local=0`,
		actor.PreferredUsername, actor.Domain, actor.Type, actor.InboxUrl, actor.OutboxUrl,
		nullStr(actor.SharedInboxUrl), actor.FollowersUrl, actor.PublicKey, nullTime(actor.LastFetchedAt.UTC()),
		actor.Fid)
	return err
}

func (s *store) SetActorPrivKey(actorId int64, privKey string) error {
	_, err := s.q.Exec("UPDATE actors SET private_key=? WHERE id=?", privKey, actorId)
	return err
}

func (s *store) GetActorPrivKey(actorId int64) (string, error) {
	row := s.q.QueryRow("SELECT private_key FROM actors WHERE id=?", actorId)
	var res string
	if err := row.Scan(&res); err != nil {
		return "", err
	}
	return res, nil
}

func (s *store) GetActorById(id int64) (*Actor, error) {
	return s.getActor("a.id=?", id)
}

func (s *store) GetActorByFid(fid string) (*Actor, error) {
	return s.getActor("a.fid=?", fid)
}

func (s *store) GetLocalActor(name string) (*Actor, error) {
	return s.getActor("a.is_local=1 AND a.preferred_username=?", name)
}

// GetActorsFromAudience returns the actors that are named in urls, or are approved followers
// of an actor or library whose followers collection is named in urls.
func (s *store) GetActorsFromAudience(urls []string) ([]*Actor, error) {
	if len(urls) == 0 {
		return []*Actor{}, nil
	}
	ph := placeholders(len(urls))
	query := fmt.Sprintf(`SELECT %s FROM actors a WHERE a.fid IN (%[2]s)
		OR a.id IN (SELECT f.actor_id FROM follows f JOIN actors t ON f.target_id=t.id
			WHERE f.approved=? AND t.followers_url IN (%[2]s))
		OR a.id IN (SELECT lf.actor_id FROM library_follows lf JOIN libraries l ON lf.target_id=l.id
			WHERE lf.approved=? AND l.followers_url IN (%[2]s))
		ORDER BY a.id`, actorCols, ph)
	urlArgs := stringArgs(urls)
	args := make([]any, 0, len(urls)*3+2)
	args = append(args, urlArgs...)
	args = append(args, ApproveAccepted)
	args = append(args, urlArgs...)
	args = append(args, ApproveAccepted)
	args = append(args, urlArgs...)
	return s.queryActors(query, args...)
}

// GetApprovedFollowers returns the followers of an actor or a library whose follow was approved.
func (s *store) GetApprovedFollowers(target ObjectRef) ([]*Actor, error) {
	var table string
	switch target.Kind {
	case KindActor:
		table = "follows"
	case KindLibrary:
		table = "library_follows"
	default:
		return nil, fmt.Errorf("object of kind '%s' has no followers", target.Kind)
	}
	query := fmt.Sprintf(`SELECT %s FROM actors a JOIN %s f ON f.actor_id=a.id
		WHERE f.target_id=? AND f.approved=? ORDER BY a.id`, actorCols, table)
	return s.queryActors(query, target.Id, ApproveAccepted)
}

func followTable(kind ObjectKind) (string, error) {
	switch kind {
	case KindFollow:
		return "follows", nil
	case KindLibraryFollow:
		return "library_follows", nil
	}
	return "", fmt.Errorf("not a follow kind: '%s'", kind)
}

func scanFollow(kind ObjectKind, row scanner) (*Follow, error) {
	f := Follow{Kind: kind}
	var fid sql.NullString
	err := row.Scan(&f.Id, &f.Uuid, &fid, &f.ActorId, &f.TargetId, &f.Approved, &f.CreatedAt, &f.ModifiedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	f.Fid = fid.String
	return &f, nil
}

func (s *store) getFollow(kind ObjectKind, where string, args ...any) (*Follow, error) {
	table, err := followTable(kind)
	if err != nil {
		return nil, err
	}
	query := "SELECT id, uuid, fid, actor_id, target_id, approved, created_at, modified_at FROM " +
		table + " WHERE " + where
	return scanFollow(kind, s.q.QueryRow(query, args...))
}

// CreateFollow stores a follow in the table that matches follow.Kind and sets follow.Id.
func (s *store) CreateFollow(follow *Follow) error {
	table, err := followTable(follow.Kind)
	if err != nil {
		return err
	}
	now := time.Now()
	if follow.CreatedAt.IsZero() {
		follow.CreatedAt = now
	}
	if follow.ModifiedAt.IsZero() {
		follow.ModifiedAt = follow.CreatedAt
	}
	query := "INSERT INTO " + table +
		" (uuid, fid, actor_id, target_id, approved, created_at, modified_at) VALUES (?, ?, ?, ?, ?, ?, ?)"
	res, err := s.q.Exec(query, follow.Uuid, nullStr(follow.Fid), follow.ActorId, follow.TargetId,
		follow.Approved, follow.CreatedAt.UTC(), follow.ModifiedAt.UTC())
	if err != nil {
		return err
	}
	follow.Id, err = res.LastInsertId()
	return err
}

func (s *store) GetFollow(ref ObjectRef) (*Follow, error) {
	return s.getFollow(ref.Kind, "id=?", ref.Id)
}

func (s *store) GetFollowByFid(kind ObjectKind, fid string) (*Follow, error) {
	return s.getFollow(kind, "fid=?", fid)
}

func (s *store) GetFollowBetween(kind ObjectKind, actorId, targetId int64) (*Follow, error) {
	return s.getFollow(kind, "actor_id=? AND target_id=?", actorId, targetId)
}

func (s *store) SetFollowApproved(ref ObjectRef, approved int, when time.Time) error {
	table, err := followTable(ref.Kind)
	if err != nil {
		return err
	}
	_, err = s.q.Exec("UPDATE "+table+" SET approved=?, modified_at=? WHERE id=?", approved, when.UTC(), ref.Id)
	return err
}

func (s *store) DeleteFollow(ref ObjectRef) error {
	table, err := followTable(ref.Kind)
	if err != nil {
		return err
	}
	_, err = s.q.Exec("DELETE FROM "+table+" WHERE id=?", ref.Id)
	return err
}
