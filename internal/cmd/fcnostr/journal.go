package fcnostr

import (
	"bufio"
	"bytes"
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	entrypoint "github.com/louisbranch/freeciv-nostr/internal/platform/cmd"
	"github.com/louisbranch/freeciv-nostr/internal/platform/logging"
	"github.com/louisbranch/freeciv-nostr/internal/services/game/domain/action"
	"github.com/louisbranch/freeciv-nostr/internal/services/game/domain/journal"
	"github.com/louisbranch/freeciv-nostr/internal/services/game/storage"
	"github.com/louisbranch/freeciv-nostr/internal/services/game/storage/integrity"
	"github.com/louisbranch/freeciv-nostr/internal/services/game/storage/sqlite"
)

var journalCommands = map[string]command{
	"new":    runJournalNew,
	"append": runJournalAppend,
	"import": runJournalImport,
	"list":   runJournalList,
	"verify": runJournalVerify,
}

func runJournal(ctx context.Context, env *runEnv, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: journal requires new, append, import, list or verify", ErrUsage)
	}
	cmd, ok := journalCommands[args[0]]
	if !ok {
		return fmt.Errorf("%w: unknown journal command %q", ErrUsage, args[0])
	}
	return cmd(ctx, env, args[1:])
}

// journalFlags are shared by every journal subcommand.
type journalFlags struct {
	path    string
	session string
	format  string
}

func (e *runEnv) bindJournalFlags(name string, withSession bool) (*journalFlags, *flag.FlagSet) {
	fs := e.newFlagSet("journal " + name)
	jf := &journalFlags{}
	fs.StringVar(&jf.path, "db", e.cfg.JournalPath, "SQLite journal path (import only: empty previews in memory)")
	fs.StringVar(&jf.format, "format", "", "storage format for new entries")
	if withSession {
		fs.StringVar(&jf.session, "session", "", "session id")
	}
	return jf, fs
}

// openJournal opens the SQLite journal at path, or an in-memory journal when
// path is empty. Only import reaches the in-memory case; every other command
// calls requireDB first.
func (e *runEnv) openJournal(ctx context.Context, jf *journalFlags) (storage.Journal, error) {
	codec, err := e.codec(jf.format)
	if err != nil {
		return nil, err
	}
	path := strings.TrimSpace(jf.path)
	if path == "" {
		e.logger.Debug().Msg("using in-memory journal")
		return journal.NewMemory(codec), nil
	}
	store, err := sqlite.Open(ctx, path,
		sqlite.WithCodec(codec),
		sqlite.WithLogger(logging.Component(e.logger, "journal")),
	)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	return store, nil
}

func requireDB(jf *journalFlags) error {
	if strings.TrimSpace(jf.path) == "" {
		return fmt.Errorf("%w: -db or FREECIV_NOSTR_JOURNAL_PATH is required", ErrUsage)
	}
	return nil
}

func requireSession(jf *journalFlags) error {
	if strings.TrimSpace(jf.session) == "" {
		return fmt.Errorf("%w: -session is required", ErrUsage)
	}
	return nil
}

func runJournalNew(ctx context.Context, env *runEnv, args []string) error {
	jf, fs := env.bindJournalFlags("new", false)
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return err
	}
	if err := requireDB(jf); err != nil {
		return err
	}
	j, err := env.openJournal(ctx, jf)
	if err != nil {
		return err
	}
	defer j.Close()

	id, err := j.CreateSession(ctx)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	_, err = fmt.Fprintln(env.io.Out, id)
	return err
}

func runJournalAppend(ctx context.Context, env *runEnv, args []string) error {
	jf, fs := env.bindJournalFlags("append", true)
	turn := fs.Uint64("turn", 0, "turn number")
	payloadHex := fs.String("payload", "", "payload bytes as hex")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return err
	}
	if err := requireDB(jf); err != nil {
		return err
	}
	if err := requireSession(jf); err != nil {
		return err
	}
	payload, err := hex.DecodeString(strings.TrimSpace(*payloadHex))
	if err != nil {
		return fmt.Errorf("%w: -payload must be hex: %v", ErrUsage, err)
	}

	j, err := env.openJournal(ctx, jf)
	if err != nil {
		return err
	}
	defer j.Close()

	entry, err := j.Append(ctx, jf.session, action.New(*turn, payload))
	if err != nil {
		return fmt.Errorf("append: %w", err)
	}
	_, err = fmt.Fprintf(env.io.Out, "seq=%d chain=%s\n", entry.Seq, entry.ChainHash)
	return err
}

// runJournalImport appends one json/v1 action per stdin line. Without -db it
// previews the resulting chain in memory.
func runJournalImport(ctx context.Context, env *runEnv, args []string) error {
	jf, fs := env.bindJournalFlags("import", true)
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return err
	}
	j, err := env.openJournal(ctx, jf)
	if err != nil {
		return err
	}
	defer j.Close()

	sessionID := strings.TrimSpace(jf.session)
	if sessionID == "" {
		if sessionID, err = j.CreateSession(ctx); err != nil {
			return fmt.Errorf("create session: %w", err)
		}
	}

	scanner := bufio.NewScanner(env.io.In)
	scanner.Buffer(make([]byte, 0, 64*1024), maxInputLen)
	var (
		line  int
		count int
		last  storage.Entry
	)
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		decoded, err := action.Decode(raw)
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		if last, err = j.Append(ctx, sessionID, decoded); err != nil {
			return fmt.Errorf("line %d: append: %w", line, err)
		}
		count++
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}
	_, err = fmt.Fprintf(env.io.Out, "session=%s imported=%d head=%s\n", sessionID, count, last.ChainHash)
	return err
}

func runJournalList(ctx context.Context, env *runEnv, args []string) error {
	jf, fs := env.bindJournalFlags("list", true)
	after := fs.Uint64("after", 0, "list entries after this seq")
	limit := fs.Int("limit", 0, "maximum entries (0: all)")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return err
	}
	if err := requireDB(jf); err != nil {
		return err
	}
	if err := requireSession(jf); err != nil {
		return err
	}
	j, err := env.openJournal(ctx, jf)
	if err != nil {
		return err
	}
	defer j.Close()

	entries, err := j.List(ctx, jf.session, *after, *limit)
	if err != nil {
		return fmt.Errorf("list: %w", err)
	}

	tw := tabwriter.NewWriter(env.io.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SEQ\tTURN\tPAYLOAD\tFORMAT\tRECORDED\tCHAIN")
	for _, entry := range entries {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\t%s\n",
			entry.Seq,
			entry.Action.Turn(),
			humanize.IBytes(uint64(entry.Action.PayloadLen())),
			entry.Format,
			entry.RecordedAt.Format(time.RFC3339),
			shortHash(entry.ChainHash),
		)
	}
	return tw.Flush()
}

func runJournalVerify(ctx context.Context, env *runEnv, args []string) error {
	jf, fs := env.bindJournalFlags("verify", true)
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return err
	}
	if err := requireDB(jf); err != nil {
		return err
	}
	if err := requireSession(jf); err != nil {
		return err
	}
	j, err := env.openJournal(ctx, jf)
	if err != nil {
		return err
	}
	defer j.Close()

	entries, err := j.List(ctx, jf.session, 0, 0)
	if err != nil {
		return fmt.Errorf("list: %w", err)
	}
	if err := integrity.VerifyChain(entries, nil); err != nil {
		return err
	}
	head, ok, err := j.Head(ctx, jf.session)
	if err != nil {
		return fmt.Errorf("head: %w", err)
	}
	if ok && (len(entries) == 0 || head.ChainHash != entries[len(entries)-1].ChainHash) {
		return fmt.Errorf("head %d does not match listed chain", head.Seq)
	}
	_, err = fmt.Fprintf(env.io.Out, "ok: %s entries verified, head=%s\n", humanize.Comma(int64(len(entries))), head.ChainHash)
	return err
}

func shortHash(hash string) string {
	if len(hash) <= 12 {
		return hash
	}
	return hash[:12]
}
