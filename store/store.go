// Package store implements a content-addressed artifact store backed by bbolt.
//
// Artifacts are keyed by their CIDv1 (raw codec, sha2-256 multihash). Storing the same bytes twice is a no-op, stored
// artifacts are immutable. Next to each artifact, the store keeps a CBOR encoded metadata record taken from the
// artifact's header, so that artifacts can be listed by type without decoding their payloads.
package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
	"github.com/sirupsen/logrus"
	"github.com/smartcontractkit/tfheartifacts/safeserialization"
	bolt "go.etcd.io/bbolt"
)

const (
	artifactsBucket = "artifacts"
	metadataBucket  = "metadata"
	infoBucket      = "info"
	versionKey      = "version"

	storeVersion = 0
)

var (
	// ErrNotFound is returned when the CID is absent from the store.
	ErrNotFound = errors.New("store: artifact not found")

	// ErrCIDMismatch is returned when the stored bytes do not hash to the requested CID.
	ErrCIDMismatch = errors.New("store: artifact does not match its CID")
)

// Metadata describes a stored artifact. VersioningVersion holds the producer version for unversioned artifacts.
type Metadata struct {
	TypeName          string    `cbor:"1,keyasint"`
	Mode              string    `cbor:"2,keyasint"`
	HeaderVersion     string    `cbor:"3,keyasint"`
	VersioningVersion string    `cbor:"4,keyasint"`
	Size              int       `cbor:"5,keyasint"`
	StoredAt          time.Time `cbor:"6,keyasint"`
}

type Option func(*Store)

// WithLogger sets the logger, logrus.StandardLogger() is used by default.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Store) {
		s.log = logger
	}
}

// WithEnvironment sets the environment used to decode artifact headers.
func WithEnvironment(env safeserialization.Environment) Option {
	return func(s *Store) {
		s.env = env
	}
}

func withClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// Store is safe for concurrent use.
type Store struct {
	db  *bolt.DB
	log logrus.FieldLogger
	env safeserialization.Environment
	now func() time.Time

	encMode cbor.EncMode
}

// Open opens (or creates) the store at path.
func Open(path string, opts ...Option) (*Store, error) {
	s := &Store{
		log: logrus.StandardLogger(),
		env: safeserialization.DefaultEnvironment,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	encOpts := cbor.CoreDetEncOptions()
	encOpts.Time = cbor.TimeRFC3339Nano
	encMode, err := encOpts.EncMode()
	if err != nil {
		return nil, err
	}
	s.encMode = encMode

	s.db, err = bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("store: failed to open %s: %w", path, err)
	}

	if err = s.db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{artifactsBucket, metadataBucket} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}
		bkt, err := tx.CreateBucketIfNotExists([]byte(infoBucket))
		if err != nil {
			return err
		}
		if b := bkt.Get([]byte(versionKey)); b != nil {
			if len(b) != 1 || b[0] != storeVersion {
				return fmt.Errorf("store: incompatible version: %v", b)
			}
			return nil
		}
		return bkt.Put([]byte(versionKey), []byte{storeVersion})
	}); err != nil {
		s.db.Close()
		return nil, err
	}

	s.log.WithField("path", path).Debug("artifact store opened")
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// ComputeCID returns the CIDv1 (raw + sha2-256) of data.
func ComputeCID(data []byte) (cid.Cid, error) {
	sum, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Raw, sum), nil
}

// Put stores an artifact and returns its CID. Only the artifact's header is decoded, data without a valid header is
// rejected.
func (s *Store) Put(data []byte) (cid.Cid, error) {
	header, err := safeserialization.ReadHeader(data, s.env)
	if err != nil {
		return cid.Undef, fmt.Errorf("store: not an artifact: %w", err)
	}
	id, err := ComputeCID(data)
	if err != nil {
		return cid.Undef, err
	}

	md := Metadata{
		TypeName:          header.Name,
		Mode:              header.Mode.String(),
		HeaderVersion:     header.HeaderVersion,
		VersioningVersion: header.VersioningVersion,
		Size:              len(data),
		StoredAt:          s.now().UTC(),
	}
	mdBytes, err := s.encMode.Marshal(&md)
	if err != nil {
		return cid.Undef, err
	}

	log := s.log.WithFields(logrus.Fields{"cid": id.String(), "type": md.TypeName})
	stored := false
	if err := s.db.Update(func(tx *bolt.Tx) error {
		artifacts := tx.Bucket([]byte(artifactsBucket))
		key := id.Bytes()
		if artifacts.Get(key) != nil {
			return nil
		}
		stored = true
		if err := artifacts.Put(key, data); err != nil {
			return err
		}
		return tx.Bucket([]byte(metadataBucket)).Put(key, mdBytes)
	}); err != nil {
		return cid.Undef, err
	}

	if stored {
		log.WithField("bytes", len(data)).Info("artifact stored")
	} else {
		log.Debug("artifact already stored")
	}
	return id, nil
}

// Get returns the artifact with the given CID. The returned bytes are checked against the CID.
func (s *Store) Get(id cid.Cid) ([]byte, error) {
	var data []byte
	if err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(artifactsBucket)).Get(id.Bytes())
		if b == nil {
			return ErrNotFound
		}
		data = append([]byte(nil), b...)
		return nil
	}); err != nil {
		return nil, err
	}

	actual, err := id.Prefix().Sum(data)
	if err != nil {
		return nil, err
	}
	if !actual.Equals(id) {
		s.log.WithField("cid", id.String()).Warn("stored artifact does not match its CID")
		return nil, ErrCIDMismatch
	}
	s.log.WithField("cid", id.String()).Trace("artifact loaded")
	return data, nil
}

func (s *Store) Has(id cid.Cid) bool {
	found := false
	_ = s.db.View(func(tx *bolt.Tx) error {
		found = tx.Bucket([]byte(artifactsBucket)).Get(id.Bytes()) != nil
		return nil
	})
	return found
}

func (s *Store) Metadata(id cid.Cid) (Metadata, error) {
	var md Metadata
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(metadataBucket)).Get(id.Bytes())
		if b == nil {
			return ErrNotFound
		}
		return cbor.Unmarshal(b, &md)
	})
	return md, err
}

// List calls fn for every stored artifact, in the byte order of the CIDs. Iteration stops at the first error returned
// by fn, which is returned by List.
func (s *Store) List(fn func(cid.Cid, Metadata) error) error {
	return s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(metadataBucket)).ForEach(func(k, v []byte) error {
			id, err := cid.Cast(k)
			if err != nil {
				return fmt.Errorf("store: invalid key %x: %w", k, err)
			}
			var md Metadata
			if err := cbor.Unmarshal(v, &md); err != nil {
				return fmt.Errorf("store: invalid metadata of %s: %w", id, err)
			}
			return fn(id, md)
		})
	})
}
