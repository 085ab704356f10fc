// Package common provides shared helpers for UI features.
package common

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/edilens/internal/tableview"
)

// TableSignals is the Datastar signal state of the table controls,
// keyed by table name and then by filter key.
type TableSignals map[string]map[string]string

// SignalsOf returns the control values of the given snapshots.
func SignalsOf(snaps ...tableview.Snapshot) TableSignals {
	out := make(TableSignals, len(snaps))
	for _, s := range snaps {
		values := map[string]string{tableview.SearchKey: s.Search}
		for _, f := range s.Filters {
			values[f.Key] = f.Value
		}
		out[s.Name] = values
	}
	return out
}

// JSON encodes the signals for a data-signals attribute.
func (s TableSignals) JSON() string {
	data, err := json.Marshal(s)
	if err != nil {
		return "{}"
	}
	return string(data)
}

// ReadTableSignals reads the control values of one table from the request
// signals. Other signals are ignored and non-string values read as "".
// It must run before datastar.NewSSE, which consumes the body.
func ReadTableSignals(r *http.Request, table string) (map[string]string, error) {
	var all map[string]json.RawMessage
	if err := datastar.ReadSignals(r, &all); err != nil {
		return nil, fmt.Errorf("read signals: %w", err)
	}

	values := map[string]string{}
	raw, ok := all[table]
	if !ok {
		return values, nil
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("read %s signals: %w", table, err)
	}
	for k, v := range fields {
		s, _ := v.(string)
		values[k] = s
	}
	return values, nil
}
