package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/stevencartavia/cairo-native/internal/backend/llvm"
)

// Increment when DiskPayload format changes.
const diskCacheSchemaVersion uint16 = 1

// Digest identifies a program artifact by the SHA-256 of its raw bytes.
type Digest [sha256.Size]byte

// ProgramDigest hashes the raw program artifact bytes.
func ProgramDigest(raw []byte) Digest {
	return sha256.Sum256(raw)
}

// DiskCache stores compiled results keyed by program digest.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload is the cached form of a compilation result: the rendered IR
// plus the constant and signature tables. Descriptors are not cached; a hit
// serves emission and sequencing, a recompile rebuilds full type info.
type DiskPayload struct {
	Schema uint16

	IR string

	FunctionNames []string

	U8Consts  map[string]uint64
	U16Consts map[string]uint64
	U32Consts map[string]uint64
	U64Consts map[string]uint64

	// Wide constants travel as decimal strings; msgpack has no big.Int.
	U128Consts map[string]string
	FeltConsts map[string]string
}

// OpenDiskCache initializes and returns a disk cache at the standard location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDiskCacheAt(filepath.Join(base, app))
}

// OpenDiskCacheAt initializes a disk cache rooted at dir.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key Digest) string {
	hexKey := hex.EncodeToString(key[:])
	return filepath.Join(c.dir, "programs", hexKey+".mp")
}

// Put serializes and writes a payload to the disk cache.
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
	defer func() {
		if err := os.Remove(f.Name()); err != nil && !errors.Is(err, os.ErrNotExist) {
			fmt.Printf("failed to remove temp file: %v", err)
		}
	}()

	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(payload); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Atomic replace.
	return os.Rename(f.Name(), p)
}

// Get reads and deserializes a payload from the disk cache. A missing entry
// or a schema mismatch is a miss, not an error.
func (c *DiskCache) Get(key Digest, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	p := c.pathFor(key)
	raw, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	if err := msgpack.Unmarshal(raw, out); err != nil {
		return false, err
	}
	if out.Schema != diskCacheSchemaVersion {
		return false, nil
	}
	return true, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		return err
	}
	return os.RemoveAll(old)
}

// resultToDiskPayload converts a compilation result into its cached form.
func resultToDiskPayload(res *Result) *DiskPayload {
	if res == nil {
		return nil
	}
	payload := &DiskPayload{
		Schema:     diskCacheSchemaVersion,
		IR:         res.IR,
		U8Consts:   res.Storage.U8Consts,
		U16Consts:  res.Storage.U16Consts,
		U32Consts:  res.Storage.U32Consts,
		U64Consts:  res.Storage.U64Consts,
		U128Consts: bigConstsToStrings(res.Storage.U128Consts),
		FeltConsts: bigConstsToStrings(res.Storage.FeltConsts),
	}
	payload.FunctionNames = make([]string, 0, len(res.Storage.Functions))
	for name := range res.Storage.Functions {
		payload.FunctionNames = append(payload.FunctionNames, name)
	}
	return payload
}

// diskPayloadToStorage restores the constant tables from a cached payload.
// Signatures are names only; descriptor detail is not round-tripped.
func diskPayloadToStorage(payload *DiskPayload) (*llvm.Storage, error) {
	if payload == nil {
		return nil, errors.New("nil cache payload")
	}
	storage := llvm.NewStorage()
	if payload.U8Consts != nil {
		storage.U8Consts = payload.U8Consts
	}
	if payload.U16Consts != nil {
		storage.U16Consts = payload.U16Consts
	}
	if payload.U32Consts != nil {
		storage.U32Consts = payload.U32Consts
	}
	if payload.U64Consts != nil {
		storage.U64Consts = payload.U64Consts
	}
	var err error
	if storage.U128Consts, err = stringsToBigConsts(payload.U128Consts); err != nil {
		return nil, err
	}
	if storage.FeltConsts, err = stringsToBigConsts(payload.FeltConsts); err != nil {
		return nil, err
	}
	return storage, nil
}

func bigConstsToStrings(in map[string]*big.Int) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v.String()
	}
	return out
}

func stringsToBigConsts(in map[string]string) (map[string]*big.Int, error) {
	out := make(map[string]*big.Int, len(in))
	for k, s := range in {
		v, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return nil, fmt.Errorf("cache entry %q: malformed constant %q", k, s)
		}
		out[k] = v
	}
	return out, nil
}
