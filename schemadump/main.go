// schemadump replays DDL script files through a fresh interpreter and prints
// the resulting schema catalog as JSON, one table per entry. It's an operator
// tool for answering "what does the tracker believe the schema is after this
// history" without standing up a replication connection.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/vermilion1/schematrack/mysqlddl"
	"github.com/vermilion1/schematrack/sqlschema"
)

type columnDump struct {
	Name          string `json:"name"`
	Type          string `json:"type"`
	GenericType   string `json:"genericType"`
	Length        int    `json:"length,omitempty"`
	Scale         int    `json:"scale,omitempty"`
	Charset       string `json:"charset,omitempty"`
	Nullable      bool   `json:"nullable"`
	AutoIncrement bool   `json:"autoIncrement,omitempty"`
	Position      int    `json:"position"`
}

type tableDump struct {
	Table      string       `json:"table"`
	PrimaryKey []string     `json:"primaryKey,omitempty"`
	Columns    []columnDump `json:"columns"`
}

func main() {
	var logLevel = flag.String("log.level", "info", "Logging level")
	var serverCharset = flag.String("server-charset", "", "Assumed character_set_server value")
	var events = flag.Bool("events", false, "Log each structural change event as it applies")
	flag.Parse()

	if level, err := logrus.ParseLevel(*logLevel); err == nil {
		logrus.SetLevel(level)
	}
	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: schemadump [flags] <script.ddl> ...")
		os.Exit(1)
	}

	var parser = mysqlddl.NewParser()
	var tables = sqlschema.NewTables()
	if *serverCharset != "" {
		parser.SystemVariables().Set("character_set_server", *serverCharset, mysqlddl.ScopeGlobal)
	}
	if *events {
		parser.AddListener(eventLogger{})
	}

	for _, path := range flag.Args() {
		script, err := os.ReadFile(path)
		if err != nil {
			logrus.WithFields(logrus.Fields{"path": path, "error": err}).Fatal("error reading script")
		}
		parser.Parse(string(script), tables)
		logrus.WithFields(logrus.Fields{
			"path":   path,
			"tables": tables.Len(),
		}).Info("replayed script")
	}

	if err := json.NewEncoder(os.Stdout).Encode(dumpCatalog(tables)); err != nil {
		logrus.WithField("error", err).Fatal("error writing catalog")
	}
}

func dumpCatalog(tables *sqlschema.Tables) []tableDump {
	var ids = tables.IDs()
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	var out = make([]tableDump, 0, len(ids))
	for _, id := range ids {
		var table = tables.Get(id)
		var dump = tableDump{Table: id.String(), PrimaryKey: table.PrimaryKey()}
		for _, col := range table.Columns() {
			dump.Columns = append(dump.Columns, columnDump{
				Name:          col.Name,
				Type:          col.TypeName,
				GenericType:   col.Type.String(),
				Length:        col.Length,
				Scale:         col.Scale,
				Charset:       col.Charset,
				Nullable:      col.Optional,
				AutoIncrement: col.AutoIncremented,
				Position:      col.Position,
			})
		}
		out = append(out, dump)
	}
	return out
}

type eventLogger struct{}

func (eventLogger) HandleDDLEvent(event mysqlddl.Event) {
	logrus.WithFields(logrus.Fields{
		"type":  event.Type.String(),
		"table": event.Table.String(),
	}).Info("schema change")
}
