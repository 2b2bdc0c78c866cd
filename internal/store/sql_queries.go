// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	sq "github.com/Masterminds/squirrel"
)

const credentialTable = "credential_state"

// Persisted credential keys.
const (
	keySecret         = "secret"
	keySessionToken   = "session_token"
	keySubjectID      = "subject_id"
	keyTokenExpiresAt = "token_expires_at"
)

var (
	allKeys     = []string{keySecret, keySessionToken, keySubjectID, keyTokenExpiresAt}
	sessionKeys = []string{keySessionToken, keySubjectID, keyTokenExpiresAt}
)

// upsertOnConflict replaces the value of an existing key.
const upsertOnConflict = "ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at"

type kv struct {
	name  string
	value string
}

func buildLoadQuery() (string, []any, error) {
	return sq.Select("name", "value").
		From(credentialTable).
		Where(sq.Eq{"name": allKeys}).
		ToSql()
}

func buildUpsertQuery(now any, values ...kv) (string, []any, error) {
	q := sq.Insert(credentialTable).Columns("name", "value", "updated_at")
	for _, v := range values {
		q = q.Values(v.name, v.value, now)
	}
	return q.Suffix(upsertOnConflict).ToSql()
}

func buildDeleteQuery(keys []string) (string, []any, error) {
	return sq.Delete(credentialTable).
		Where(sq.Eq{"name": keys}).
		ToSql()
}
