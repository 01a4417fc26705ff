// Package migrations embeds SQL migration scripts used by the SQLite journal.
//
// Why this package exists:
// - It keeps schema history for the journal in one place.
// - It lets an existing journal file upgrade on open without operator SQL.
package migrations

import "embed"

// JournalFS holds the journal schema under journal/.
//
//go:embed journal/*.sql
var JournalFS embed.FS
