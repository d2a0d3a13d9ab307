package dal

import (
	"database/sql"
	"embed"
	"errors"
	"fed_core/shared"
	"fmt"
	"github.com/mattn/go-sqlite3"
	"strings"
	"time"
)

const schemaVer = 1

// Max rows per multi-row INSERT; keeps us well below SQLite's bound variable limit.
const bulkChunkSize = 200

//go:embed scripts/*
var scripts embed.FS

// IStore holds the data operations. They are available both directly on the
// repository and inside a transaction.
type IStore interface {
	CreateUser(username string, createdAt time.Time) (int64, error)
	AddActorIfNotExist(actor *Actor) (isNew bool, err error)
	UpdateRemoteActor(actor *Actor) error
	SetActorPrivKey(actorId int64, privKey string) error
	GetActorPrivKey(actorId int64) (string, error)
	GetActorById(id int64) (*Actor, error)
	GetActorByFid(fid string) (*Actor, error)
	GetLocalActor(name string) (*Actor, error)
	GetActorsFromAudience(urls []string) ([]*Actor, error)
	GetApprovedFollowers(target ObjectRef) ([]*Actor, error)

	CreateFollow(follow *Follow) error
	GetFollow(ref ObjectRef) (*Follow, error)
	GetFollowByFid(kind ObjectKind, fid string) (*Follow, error)
	GetFollowBetween(kind ObjectKind, actorId, targetId int64) (*Follow, error)
	SetFollowApproved(ref ObjectRef, approved int, when time.Time) error
	DeleteFollow(ref ObjectRef) error

	CreateLibrary(library *Library) error
	GetLibraryById(id int64) (*Library, error)
	GetLibraryByFid(fid string) (*Library, error)
	DeleteLibrary(id int64) error
	CreateUpload(upload *Upload) error
	GetUploadById(id int64) (*Upload, error)
	GetUploadByFid(fid string) (*Upload, error)
	DeleteUpload(id int64) error

	InsertActivity(act *Activity) (isNew bool, err error)
	InsertActivities(acts []*Activity) error
	GetActivity(id int64) (*Activity, error)
	GetActivityByUuid(actUuid string) (*Activity, error)
	UpdateActivityLinks(id int64, links map[string]ObjectRef) error
	InsertInboxItems(items []*InboxItem) error
	GetInboxItems(activityId int64) ([]*InboxItem, error)
	InsertDeliveries(deliveries []*Delivery) error
	GetDeliveries(activityId int64, onlyPending bool) ([]*Delivery, error)
	UpdateDelivery(delivery *Delivery) error

	AddJob(job *Job) error
	GetDueJobs(now time.Time, maxCount int) ([]*Job, error)
	GetJobCount() (int, error)
	RescheduleJob(id int64, attempts int, next time.Time) error
	DeleteJob(id int64) error
}

type IRepo interface {
	IStore
	InitUpdateDb()
	Begin() (ITx, error)
	Close() error
}

// ITx is a store bound to one database transaction.
type ITx interface {
	IStore
	Commit() error
	Rollback() error
}

// queryer is what *sql.DB and *sql.Tx have in common.
type queryer interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// scanner is what *sql.Row and *sql.Rows have in common.
type scanner interface {
	Scan(dest ...any) error
}

type store struct {
	q queryer
}

type Repo struct {
	store
	cfg    *shared.Config
	logger shared.ILogger
	db     *sql.DB
}

type Tx struct {
	store
	tx *sql.Tx
}

func NewRepo(cfg *shared.Config, logger shared.ILogger) IRepo {

	var err error
	var db *sql.DB

	// https://phiresky.github.io/blog/2020/sqlite-performance-tuning/
	// _synchronous=1 is "normal"
	// _txlock=immediate: writers take the lock at BEGIN, so concurrent transactions wait on busy_timeout
	// instead of failing on lock upgrade.
	cstr := "file:%s?mode=rwc&_journal_mode=WAL&_synchronous=1&_busy_timeout=5000&_txlock=immediate&_foreign_keys=1"
	db, err = sql.Open("sqlite3", fmt.Sprintf(cstr, cfg.DbFile))
	if err != nil {
		logger.Errorf("Failed to open/create DB file: %s: %v", cfg.DbFile, err)
		panic(err)
	}

	repo := Repo{
		store:  store{q: db},
		cfg:    cfg,
		logger: logger,
		db:     db,
	}

	return &repo
}

func (repo *Repo) Close() error {
	return repo.db.Close()
}

func (repo *Repo) Begin() (ITx, error) {
	sqlTx, err := repo.db.Begin()
	if err != nil {
		return nil, err
	}
	return &Tx{store{q: sqlTx}, sqlTx}, nil
}

func (t *Tx) Commit() error {
	return t.tx.Commit()
}

// Rollback is a no-op after Commit, so callers can defer it unconditionally.
func (t *Tx) Rollback() error {
	err := t.tx.Rollback()
	if errors.Is(err, sql.ErrTxDone) {
		return nil
	}
	return err
}

func (repo *Repo) InitUpdateDb() {

	dbVer := 0
	sysParamsExists := false
	var err error
	var rows *sql.Rows

	rows, err = repo.db.Query("SELECT name FROM sqlite_master WHERE type='table' AND name='sys_params'")
	if err != nil {
		repo.logger.Errorf("Failed to check if 'sys_params' table exists: %v", err)
		panic(err)
	}
	for rows.Next() {
		sysParamsExists = true
	}
	_ = rows.Close()
	if !sysParamsExists {
		repo.logger.Printf("Database appears to be empty; current schema version is %d", schemaVer)
	} else {
		row := repo.db.QueryRow("SELECT val FROM sys_params WHERE name='schema_ver'")
		if err = row.Scan(&dbVer); err != nil {
			repo.logger.Errorf("Failed to query schema version: %v", err)
			panic(err)
		}
		repo.logger.Printf("Database is at version %d; current schema version is %d", dbVer, schemaVer)
	}
	for i := dbVer; i < schemaVer; i += 1 {
		nextVer := i + 1
		fn := fmt.Sprintf("scripts/create-%02d.sql", nextVer)
		repo.logger.Printf("Running %s", fn)
		var sqlBytes []byte
		if sqlBytes, err = scripts.ReadFile(fn); err != nil {
			repo.logger.Errorf("Failed to read init script %s: %v", fn, err)
			panic(err)
		}
		sqlStr := string(sqlBytes)
		if _, err = repo.db.Exec(sqlStr); err != nil {
			repo.logger.Errorf("Failed to execute init script %s: %v", fn, err)
			panic(err)
		}
		_, err = repo.db.Exec("UPDATE sys_params SET val=? WHERE name='schema_ver'", nextVer)
		if err != nil {
			repo.logger.Errorf("Failed to update schema_ver to %d: %v", nextVer, err)
			panic(err)
		}
	}
}

func isDuplicateKey(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		// Constraint violation; unique or primary key
		return sqliteErr.Code == 19 && (sqliteErr.ExtendedCode == 2067 || sqliteErr.ExtendedCode == 1555)
	}
	return false
}

// placeholders returns "?, ?, ?" for n values.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// bulkInsert runs one multi-row INSERT per chunk of rows.
// rowArgs returns the values of row i in the order of cols.
func (s *store) bulkInsert(table string, cols []string, n int, rowArgs func(i int) []any) error {
	rowPh := "(" + placeholders(len(cols)) + ")"
	for start := 0; start < n; start += bulkChunkSize {
		end := min(start+bulkChunkSize, n)
		var sb strings.Builder
		sb.WriteString("INSERT INTO ")
		sb.WriteString(table)
		sb.WriteString(" (")
		sb.WriteString(strings.Join(cols, ", "))
		sb.WriteString(") VALUES ")
		args := make([]any, 0, (end-start)*len(cols))
		for i := start; i < end; i++ {
			if i != start {
				sb.WriteString(", ")
			}
			sb.WriteString(rowPh)
			args = append(args, rowArgs(i)...)
		}
		if _, err := s.q.Exec(sb.String(), args...); err != nil {
			return err
		}
	}
	return nil
}

func nullStr(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(i int64) sql.NullInt64 {
	return sql.NullInt64{Int64: i, Valid: i != 0}
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

func stringArgs(vals []string) []any {
	res := make([]any, len(vals))
	for i, v := range vals {
		res[i] = v
	}
	return res
}
