// Package surrealrepos implements the document-store repositories on SurrealDB.
// Records are addressed as type::thing(table, id) so the app-generated uuids
// survive the round trip without record-id escaping concerns.
package surrealrepos

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
	"github.com/surrealdb/surrealdb.go"

	"github.com/opennotes/opennotes/core"
)

const (
	subjectTable      = "subjects"
	noteTable         = "notes"
	subscriptionTable = "subscriptions"

	statusOK = "OK"
)

// Open connects, signs in and selects the app namespace/database.
func Open(conf *core.Config) (*surrealdb.DB, error) {
	db, err := surrealdb.New(conf.Database.URL)
	if err != nil {
		return nil, errors.Wrap(err, "connecting to surrealdb")
	}
	if _, err = db.Signin(map[string]interface{}{
		"user": conf.Database.User,
		"pass": conf.Database.Password,
	}); err != nil {
		return nil, errors.Wrap(err, "signing in to surrealdb")
	}
	if _, err = db.Use(conf.Database.Namespace, conf.Database.Name); err != nil {
		return nil, errors.Wrap(err, "selecting namespace")
	}
	return db, nil
}

type rawQuery[T any] struct {
	Status string `json:"status"`
	Detail string `json:"detail"`
	Result []T    `json:"result"`
}

// unmarshalQuery loads a raw Query response into typed rows, collapsing the
// per-statement envelopes.
func unmarshalQuery[T any](resp interface{}) ([]T, error) {
	jsonBytes, err := json.Marshal(resp)
	if err != nil {
		return nil, errors.Wrap(err, "serializing query response")
	}
	var raws []rawQuery[T]
	if err = json.Unmarshal(jsonBytes, &raws); err != nil {
		return nil, errors.Wrap(err, "deserializing query response")
	}

	var rows []T
	for _, raw := range raws {
		if raw.Status != statusOK {
			return nil, errors.Errorf("query statement failed: %s %s", raw.Status, raw.Detail)
		}
		rows = append(rows, raw.Result...)
	}
	return rows, nil
}

// plainID strips the table prefix and any record-id brackets from a SurrealDB
// record id, e.g. "notes:⟨b4e…⟩" -> "b4e…".
func plainID(rid string) string {
	if i := strings.IndexByte(rid, ':'); i >= 0 {
		rid = rid[i+1:]
	}
	return strings.Trim(rid, "⟨⟩`")
}
