// Package binlogfeed tails a MySQL binary log and routes the DDL statement
// text of query events into a mysqlddl.Parser, so that a tracked sqlschema
// catalog follows the live database as schema changes replicate. Row change
// events are not this package's concern; consumers wanting those should run
// their own binlog reader alongside and read the catalog between statements.
package binlogfeed

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-mysql-org/go-mysql/mysql"
	"github.com/go-mysql-org/go-mysql/replication"
	"github.com/sirupsen/logrus"

	"github.com/vermilion1/schematrack/mysqlddl"
	"github.com/vermilion1/schematrack/sqlschema"
)

// Config tells the feed how to connect to the replication source.
type Config struct {
	// Address is the host:port at which the database can be reached.
	Address  string
	User     string
	Password string
	// ServerID must be unique among all nodes of the replication cluster.
	// The specific value doesn't matter so long as it is unique.
	ServerID uint32
	// StartCursor is a "<logfile>:<position>" binlog cursor to resume from.
	StartCursor string
}

// Validate checks that the configuration possesses all required properties.
func (c *Config) Validate() error {
	var requiredProperties = [][]string{
		{"address", c.Address},
		{"user", c.User},
		{"cursor", c.StartCursor},
	}
	for _, req := range requiredProperties {
		if req[1] == "" {
			return fmt.Errorf("missing '%s'", req[0])
		}
	}
	if _, _, err := splitHostPort(c.Address); err != nil {
		return err
	}
	if _, _, err := splitCursor(c.StartCursor); err != nil {
		return err
	}
	return nil
}

// SetDefaults fills in the default values for unset optional parameters.
func (c *Config) SetDefaults() {
	if c.ServerID == 0 {
		c.ServerID = 0x53436874 // "SCht"
	}
}

// Feed is a running binlog tail. Interpretation happens on the feed's own
// goroutine; the catalog must only be read between statements, which in
// practice means after Close or from a listener callback.
type Feed struct {
	syncer   *replication.BinlogSyncer
	streamer *replication.BinlogStreamer
	parser   *mysqlddl.Parser
	tables   *sqlschema.Tables
	cancel   context.CancelFunc
	errCh    chan error
}

// Start opens the replication connection and begins interpreting DDL into
// the given parser and catalog, resuming from cfg.StartCursor.
func Start(ctx context.Context, cfg *Config, parser *mysqlddl.Parser, tables *sqlschema.Tables) (*Feed, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid feed config: %w", err)
	}
	var host, port, _ = splitHostPort(cfg.Address)
	var syncer = replication.NewBinlogSyncer(replication.BinlogSyncerConfig{
		ServerID: cfg.ServerID,
		Flavor:   "mysql",
		Host:     host,
		Port:     uint16(port),
		User:     cfg.User,
		Password: cfg.Password,
	})

	var pos mysql.Position
	var binlogName, binlogPos, _ = splitCursor(cfg.StartCursor)
	pos.Name = binlogName
	pos.Pos = uint32(binlogPos)
	logrus.WithField("pos", pos).Info("starting binlog feed")

	streamer, err := syncer.StartSync(pos)
	if err != nil {
		syncer.Close()
		return nil, fmt.Errorf("error starting binlog sync: %w", err)
	}

	var feedCtx, cancel = context.WithCancel(ctx)
	var feed = &Feed{
		syncer:   syncer,
		streamer: streamer,
		parser:   parser,
		tables:   tables,
		cancel:   cancel,
		errCh:    make(chan error),
	}
	go func() {
		var err = feed.run(feedCtx)
		if errors.Is(err, context.Canceled) {
			err = nil
		}
		syncer.Close()
		feed.errCh <- err
	}()
	return feed, nil
}

func (f *Feed) run(ctx context.Context) error {
	for {
		var event, err = f.streamer.GetEvent(ctx)
		if err != nil {
			return fmt.Errorf("error getting next event: %w", err)
		}

		switch data := event.Event.(type) {
		case *replication.QueryEvent:
			f.handleQuery(string(data.Schema), string(data.Query))
		case *replication.RotateEvent:
			logrus.WithField("data", data).Trace("Rotate Event")
		case *replication.FormatDescriptionEvent:
			logrus.WithField("data", data).Trace("Format Description Event")
		case *replication.GTIDEvent, *replication.PreviousGTIDsEvent, *replication.XIDEvent:
			logrus.WithField("type", event.Header.EventType).Trace("transaction bookkeeping event")
		default:
			logrus.WithField("type", event.Header.EventType).Trace("ignoring binlog event")
		}
	}
}

// handleQuery interprets one query event's statement text. The binlog tags
// each query with the session's default schema, so unqualified table names
// must resolve against it; a USE is replayed first whenever the context
// differs, which also keeps the database charset variable current.
func (f *Feed) handleQuery(schema, query string) {
	logrus.WithFields(logrus.Fields{
		"schema": schema,
		"query":  query,
	}).Debug("handling query event")
	if schema != "" && f.parser.CurrentDatabase() != schema {
		f.parser.Parse(fmt.Sprintf("USE `%s`;", schema), f.tables)
	}
	f.parser.Parse(query, f.tables)
}

// Cursor returns the position after the most recently processed event, in
// the same "<logfile>:<position>" form Config.StartCursor accepts.
func (f *Feed) Cursor() string {
	var pos = f.syncer.GetNextPosition()
	return fmt.Sprintf("%s:%d", pos.Name, pos.Pos)
}

// Close stops the feed and returns the terminal error, if any.
func (f *Feed) Close() error {
	f.cancel()
	return <-f.errCh
}

func splitCursor(cursor string) (string, int64, error) {
	seps := strings.Split(cursor, ":")
	if len(seps) != 2 {
		return "", 0, fmt.Errorf("input %q must have <logfile>:<position> shape", cursor)
	}
	position, err := strconv.ParseInt(seps[1], 10, 64)
	if err != nil {
		return "", 0, fmt.Errorf("invalid position value %q: %w", seps[1], err)
	}
	return seps[0], position, nil
}

func splitHostPort(addr string) (string, int64, error) {
	seps := strings.Split(addr, ":")
	if len(seps) != 2 {
		return "", 0, fmt.Errorf("input %q must have <host>:<port> shape", addr)
	}
	port, err := strconv.ParseInt(seps[1], 10, 64)
	if err != nil {
		return "", 0, fmt.Errorf("invalid port number %q: %w", seps[1], err)
	}
	return seps[0], port, nil
}
