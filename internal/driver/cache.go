package driver

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"ripple/internal/config"
	"ripple/internal/diag"
	"ripple/internal/source"
)

// Schema version of DiskPayload; bump when its layout or the verifier's
// diagnostics change meaning.
const diskCacheSchemaVersion uint16 = 1

// Digest identifies a verification input: every loaded document plus the
// settings that influence diagnostics.
type Digest [32]byte

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// DiskCache stores the diagnostics of verified documents keyed by Digest.
// Safe for concurrent use.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload is the cached outcome of one document.
type DiskPayload struct {
	Schema      uint16
	Path        string
	Diagnostics []cachedDiagnostic
}

type cachedDiagnostic struct {
	Severity uint8
	Code     uint16
	File     uint32
	Start    uint32
	End      uint32
	Args     map[string]string
	Notes    []cachedNote
}

type cachedNote struct {
	File  uint32
	Start uint32
	End   uint32
	Msg   string
}

// OpenDiskCache opens dir, or the user cache directory when dir is empty.
func OpenDiskCache(dir string) (*DiskCache, error) {
	if dir == "" {
		base := os.Getenv("XDG_CACHE_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("locate cache directory: %w", err)
			}
			base = filepath.Join(home, ".cache")
		}
		dir = filepath.Join(base, "ripple")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key Digest) string {
	return filepath.Join(c.dir, "results", key.String()+".mp")
}

// Put writes payload atomically.
func (c *DiskCache) Put(key Digest, payload *DiskPayload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("encode cache entry: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, p)
}

// Get reads the payload for key. A missing entry or one written by another
// schema is a miss.
func (c *DiskCache) Get(key Digest, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()
	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, fmt.Errorf("decode cache entry: %w", err)
	}
	return out.Schema == diskCacheSchemaVersion, nil
}

// DropAll removes every cached entry.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, "results"))
}

// digestOf hashes the files of fs in load order together with the
// verifier settings.
func digestOf(fs *source.FileSet, cfg config.VerifierConfig) Digest {
	h := sha256.New()
	var buf [8]byte
	binary.LittleEndian.PutUint16(buf[:2], diskCacheSchemaVersion)
	_, _ = h.Write(buf[:2])
	binary.LittleEndian.PutUint32(buf[:4], uint32(cfg.FixedPointBound))
	_, _ = h.Write(buf[:4])
	binary.LittleEndian.PutUint32(buf[:4], uint32(cfg.MaxDiagnostics))
	_, _ = h.Write(buf[:4])
	if cfg.AllowDuplicateBindings {
		buf[0] = 1
	} else {
		buf[0] = 0
	}
	_, _ = h.Write(buf[:1])
	for _, f := range fs.Files() {
		_, _ = h.Write([]byte(f.Path))
		_, _ = h.Write([]byte{0})
		_, _ = h.Write(f.Hash[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

func toPayload(path string, diags []diag.Diagnostic) *DiskPayload {
	p := &DiskPayload{Schema: diskCacheSchemaVersion, Path: path}
	for _, d := range diags {
		cd := cachedDiagnostic{
			Severity: uint8(d.Severity),
			Code:     uint16(d.Code),
			File:     uint32(d.Primary.File),
			Start:    d.Primary.Start,
			End:      d.Primary.End,
		}
		if len(d.Args) > 0 {
			cd.Args = make(map[string]string, len(d.Args))
			for k := range d.Args {
				cd.Args[k] = d.Arg(k)
			}
		}
		for _, n := range d.Notes {
			cd.Notes = append(cd.Notes, cachedNote{File: uint32(n.Span.File), Start: n.Span.Start, End: n.Span.End, Msg: n.Msg})
		}
		p.Diagnostics = append(p.Diagnostics, cd)
	}
	return p
}

// diagnostics restores the payload. Arguments come back as strings, which
// render the same messages.
func (p *DiskPayload) diagnostics() []diag.Diagnostic {
	out := make([]diag.Diagnostic, 0, len(p.Diagnostics))
	for _, cd := range p.Diagnostics {
		d := diag.Diagnostic{
			Severity: diag.Severity(cd.Severity),
			Code:     diag.Code(cd.Code),
			Primary:  source.Span{File: source.FileID(cd.File), Start: cd.Start, End: cd.End},
		}
		if len(cd.Args) > 0 {
			d.Args = make(diag.Args, len(cd.Args))
			for k, v := range cd.Args {
				d.Args[k] = v
			}
		}
		for _, n := range cd.Notes {
			d.Notes = append(d.Notes, diag.Note{Span: source.Span{File: source.FileID(n.File), Start: n.Start, End: n.End}, Msg: n.Msg})
		}
		out = append(out, d)
	}
	return out
}
