package logic

import (
	"fed_core/dal"
	"fmt"
)

type objectLookup func(store dal.IStore, id int64) (any, error)

// objectLookups resolves each kind of activity link to its entity.
var objectLookups = map[dal.ObjectKind]objectLookup{
	dal.KindActor: func(store dal.IStore, id int64) (any, error) {
		obj, err := store.GetActorById(id)
		return asObject(obj, err)
	},
	dal.KindLibrary: func(store dal.IStore, id int64) (any, error) {
		obj, err := store.GetLibraryById(id)
		return asObject(obj, err)
	},
	dal.KindUpload: func(store dal.IStore, id int64) (any, error) {
		obj, err := store.GetUploadById(id)
		return asObject(obj, err)
	},
	dal.KindFollow: func(store dal.IStore, id int64) (any, error) {
		obj, err := store.GetFollow(dal.ObjectRef{Kind: dal.KindFollow, Id: id})
		return asObject(obj, err)
	},
	dal.KindLibraryFollow: func(store dal.IStore, id int64) (any, error) {
		obj, err := store.GetFollow(dal.ObjectRef{Kind: dal.KindLibraryFollow, Id: id})
		return asObject(obj, err)
	},
}

// Keeps a nil pointer from turning into a non-nil interface.
func asObject[T any](obj *T, err error) (any, error) {
	if err != nil || obj == nil {
		return nil, err
	}
	return obj, nil
}

// ResolveObject loads the entity a link points to. It returns nil for a zero
// ref, or when the entity no longer exists.
func ResolveObject(store dal.IStore, ref dal.ObjectRef) (any, error) {
	if ref.IsZero() {
		return nil, nil
	}
	lookup, ok := objectLookups[ref.Kind]
	if !ok {
		return nil, fmt.Errorf("no lookup for object kind '%s'", ref.Kind)
	}
	return lookup(store, ref.Id)
}

// objectFid returns the federation id of the entity a link points to, or "" if there is none.
func objectFid(store dal.IStore, ref dal.ObjectRef) (string, error) {
	obj, err := ResolveObject(store, ref)
	if err != nil || obj == nil {
		return "", err
	}
	switch x := obj.(type) {
	case *dal.Actor:
		return x.Fid, nil
	case *dal.Library:
		return x.Fid, nil
	case *dal.Upload:
		return x.Fid, nil
	case *dal.Follow:
		return x.Fid, nil
	}
	return "", nil
}

// followersUrl returns the followers collection of an actor or a library.
func followersUrl(store dal.IStore, ref dal.ObjectRef) (string, error) {
	obj, err := ResolveObject(store, ref)
	if err != nil {
		return "", err
	}
	switch x := obj.(type) {
	case *dal.Actor:
		return x.FollowersUrl, nil
	case *dal.Library:
		return x.FollowersUrl, nil
	case nil:
		return "", fmt.Errorf("followed object not found: %s %d", ref.Kind, ref.Id)
	}
	return "", fmt.Errorf("object of kind '%s' has no followers", ref.Kind)
}
