package dal

import (
	"database/sql"
	"errors"
	"time"
)

func (s *store) CreateLibrary(lib *Library) error {
	if lib.CreatedAt.IsZero() {
		lib.CreatedAt = time.Now()
	}
	res, err := s.q.Exec(`INSERT INTO libraries (uuid, fid, actor_id, name, privacy_level, followers_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		lib.Uuid, lib.Fid, lib.ActorId, lib.Name, lib.PrivacyLevel, lib.FollowersUrl, lib.CreatedAt.UTC())
	if err != nil {
		return err
	}
	lib.Id, err = res.LastInsertId()
	return err
}

func (s *store) getLibrary(where string, arg any) (*Library, error) {
	row := s.q.QueryRow(`SELECT id, uuid, fid, actor_id, name, privacy_level, followers_url, created_at
		FROM libraries WHERE `+where, arg)
	var lib Library
	err := row.Scan(&lib.Id, &lib.Uuid, &lib.Fid, &lib.ActorId, &lib.Name, &lib.PrivacyLevel,
		&lib.FollowersUrl, &lib.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &lib, nil
}

func (s *store) GetLibraryById(id int64) (*Library, error) {
	return s.getLibrary("id=?", id)
}

func (s *store) GetLibraryByFid(fid string) (*Library, error) {
	return s.getLibrary("fid=?", fid)
}

// DeleteLibrary removes the library; its uploads and follows go with it.
func (s *store) DeleteLibrary(id int64) error {
	_, err := s.q.Exec("DELETE FROM libraries WHERE id=?", id)
	return err
}

func (s *store) CreateUpload(upload *Upload) error {
	if upload.CreatedAt.IsZero() {
		upload.CreatedAt = time.Now()
	}
	res, err := s.q.Exec(`INSERT INTO uploads (uuid, fid, library_id, name, mimetype, size, duration, bitrate,
		source_url, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		upload.Uuid, upload.Fid, upload.LibraryId, upload.Name, upload.Mimetype, upload.Size, upload.Duration,
		upload.Bitrate, upload.SourceUrl, upload.CreatedAt.UTC())
	if err != nil {
		return err
	}
	upload.Id, err = res.LastInsertId()
	return err
}

func (s *store) getUpload(where string, arg any) (*Upload, error) {
	row := s.q.QueryRow(`SELECT id, uuid, fid, library_id, name, mimetype, size, duration, bitrate,
		source_url, created_at FROM uploads WHERE `+where, arg)
	var u Upload
	err := row.Scan(&u.Id, &u.Uuid, &u.Fid, &u.LibraryId, &u.Name, &u.Mimetype, &u.Size, &u.Duration,
		&u.Bitrate, &u.SourceUrl, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *store) GetUploadById(id int64) (*Upload, error) {
	return s.getUpload("id=?", id)
}

func (s *store) GetUploadByFid(fid string) (*Upload, error) {
	return s.getUpload("fid=?", fid)
}

func (s *store) DeleteUpload(id int64) error {
	_, err := s.q.Exec("DELETE FROM uploads WHERE id=?", id)
	return err
}
