package stores

import (
	"context"
	"fmt"
	"time"

	"github.com/gocql/gocql"
)

// ScyllaOptions configures the cluster connection
type ScyllaOptions struct {
	Hosts    []string
	Keyspace string
	Timeout  time.Duration
}

// OpenScylla connects to the cluster, creates the tables when missing and
// returns the stores backed by the session
func OpenScylla(ctx context.Context, opts ScyllaOptions) (*Backend, error) {
	cluster := gocql.NewCluster(opts.Hosts...)
	cluster.Keyspace = opts.Keyspace
	cluster.Consistency = gocql.Quorum
	cluster.SerialConsistency = gocql.LocalSerial
	if opts.Timeout > 0 {
		cluster.Timeout = opts.Timeout
	}

	session, err := cluster.CreateSession()
	if err != nil {
		return nil, fmt.Errorf("ScyllaDB: %w", err)
	}

	if err := EnsureScyllaSchema(ctx, session, opts.Keyspace); err != nil {
		session.Close()
		return nil, err
	}

	return &Backend{
		Relations:    &ScyllaRelationStore{session: session},
		Messages:     &ScyllaMessageStore{session: session},
		Users:        &ScyllaUserDirectory{session: session},
		Publications: &ScyllaPublicationCounter{session: session},
		Close: func() error {
			session.Close()
			return nil
		},
	}, nil
}

// EnsureScyllaSchema creates every table of the keyspace (idempotent)
func EnsureScyllaSchema(ctx context.Context, session *gocql.Session, keyspace string) error {

	statements := []string{`
		CREATE TABLE IF NOT EXISTS ` + keyspace + `.users (
			user_id uuid,
			name text,
			surname text,
			nick text,
			image text,
			PRIMARY KEY (user_id))
		WITH compaction = { 'class' :  'LeveledCompactionStrategy'  };`, `
		CREATE TABLE IF NOT EXISTS ` + keyspace + `.publications_by_user (
			user_id uuid,
			publication_id timeuuid,
			text text,
			PRIMARY KEY (user_id, publication_id))
		WITH
		CLUSTERING ORDER BY (publication_id DESC) AND
		compaction = { 'class' :  'SizeTieredCompactionStrategy'  };`, `
		CREATE TABLE IF NOT EXISTS ` + keyspace + `.follows_by_follower (
			follower_id uuid,
			followed_id uuid,
			edge_id timeuuid,
			created timestamp,
			PRIMARY KEY (follower_id, followed_id))
		WITH compaction = { 'class' :  'LeveledCompactionStrategy'  };`, `
		CREATE TABLE IF NOT EXISTS ` + keyspace + `.follows_by_followed (
			followed_id uuid,
			follower_id uuid,
			edge_id timeuuid,
			created timestamp,
			PRIMARY KEY (followed_id, follower_id))
		WITH compaction = { 'class' :  'LeveledCompactionStrategy'  };`, `
		CREATE TABLE IF NOT EXISTS ` + keyspace + `.messages_by_receiver (
			receiver_id uuid,
			message_id timeuuid,
			emitter_id uuid,
			text text,
			viewed boolean,
			PRIMARY KEY (receiver_id, message_id))
		WITH
		CLUSTERING ORDER BY (message_id DESC) AND
		compaction = { 'class' :  'SizeTieredCompactionStrategy'  };`, `
		CREATE TABLE IF NOT EXISTS ` + keyspace + `.messages_by_emitter (
			emitter_id uuid,
			message_id timeuuid,
			receiver_id uuid,
			text text,
			viewed boolean,
			PRIMARY KEY (emitter_id, message_id))
		WITH
		CLUSTERING ORDER BY (message_id DESC) AND
		compaction = { 'class' :  'SizeTieredCompactionStrategy'  };`,
	}

	for _, stmt := range statements {
		if err := session.Query(stmt).WithContext(ctx).Exec(); err != nil {
			return fmt.Errorf("ScyllaDB: %w", err)
		}
	}
	return nil
}

// validUUID reports whether id can be bound to a uuid column
func validUUID(id string) bool {
	_, err := gocql.ParseUUID(id)
	return err == nil
}
