package sim

import (
	"context"
	"log"

	greptime "github.com/GreptimeTeam/greptimedb-ingester-go"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table/types"

	"dataops-idle/internal/game"
)

// GreptimeDBWriter writes tick metrics and incident events to GreptimeDB
// via the ingester client.
type GreptimeDBWriter struct {
	client   *greptime.Client
	table    string
	incTable string
}

// NewGreptimeDBWriter creates a new GreptimeDB writer. incidentTable may be
// empty to skip incident events.
func NewGreptimeDBWriter(host, database, tickTable, incidentTable string) (*GreptimeDBWriter, error) {
	cfg := greptime.NewConfig(host).WithDatabase(database)
	client, err := greptime.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	if tickTable == "" {
		tickTable = game.TickTableName
	}
	return &GreptimeDBWriter{
		client:   client,
		table:    tickTable,
		incTable: incidentTable,
	}, nil
}

func (w *GreptimeDBWriter) tickTable() (*table.Table, error) {
	tbl, err := table.New(w.table)
	if err != nil {
		return nil, err
	}
	tbl.AddTagColumn("profile_id", types.STRING)
	tbl.AddFieldColumn("dc_generated", types.FLOAT)
	tbl.AddFieldColumn("dc_balance", types.FLOAT)
	tbl.AddFieldColumn("global_sla", types.FLOAT)
	tbl.AddFieldColumn("datasets", types.INT64)
	tbl.AddFieldColumn("incidents", types.INT64)
	tbl.AddFieldColumn("prestige_level", types.INT64)
	tbl.AddFieldColumn("paused", types.BOOLEAN)
	tbl.AddFieldColumn("tick_duration_us", types.INT64)
	tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND)
	return tbl, nil
}

// WriteTick inserts a single tick row.
func (w *GreptimeDBWriter) WriteTick(row game.TickRow) error {
	tbl, err := w.tickTable()
	if err != nil {
		return err
	}
	if err := tbl.AddRow(
		row.ProfileID,
		row.DCGenerated,
		row.DCBalance,
		row.GlobalSLA,
		int64(row.Datasets),
		int64(row.Incidents),
		int64(row.PrestigeLevel),
		row.Paused,
		row.TickDuration.Microseconds(),
		row.Timestamp,
	); err != nil {
		return err
	}
	if _, err := w.client.Write(context.Background(), tbl); err != nil {
		log.Printf("[GreptimeDBWriter] tick write failed: %v", err)
		return err
	}
	return nil
}

// WriteIncident inserts a single incident event, if enabled.
func (w *GreptimeDBWriter) WriteIncident(row game.IncidentRow) error {
	return w.WriteIncidents([]game.IncidentRow{row})
}

// WriteIncidents inserts multiple incident events.
func (w *GreptimeDBWriter) WriteIncidents(rows []game.IncidentRow) error {
	if len(rows) == 0 || w.incTable == "" {
		return nil
	}
	tbl, err := table.New(w.incTable)
	if err != nil {
		return err
	}
	tbl.AddTagColumn("profile_id", types.STRING)
	tbl.AddTagColumn("dataset_id", types.STRING)
	tbl.AddFieldColumn("event", types.STRING)
	tbl.AddFieldColumn("incident_id", types.STRING)
	tbl.AddFieldColumn("type", types.STRING)
	tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND)

	for _, r := range rows {
		if err := tbl.AddRow(r.ProfileID, r.DatasetID, r.Event, r.IncidentID, r.Type, r.Timestamp); err != nil {
			return err
		}
	}
	if _, err := w.client.Write(context.Background(), tbl); err != nil {
		log.Printf("[GreptimeDBWriter] incident write failed: %v", err)
		return err
	}
	return nil
}
