package scrubber

import (
	"context"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/CodeMonkeyCybersecurity/cygscrub/pkg/execute"
	"github.com/CodeMonkeyCybersecurity/cygscrub/pkg/policy"
	"github.com/CodeMonkeyCybersecurity/cygscrub/pkg/scrub_io"
	"github.com/CodeMonkeyCybersecurity/cygscrub/pkg/winsys"
)

func testRC(t *testing.T) *scrub_io.RuntimeContext {
	t.Helper()
	return scrub_io.NewContext(context.Background(), t.Name())
}

// fixture wires a pipeline to in-memory fakes of every subsystem.
// The fakes are stateful: mutations change what later calls observe,
// so repeat runs behave like repeat runs on a real host.
type fixture struct {
	pipeline *Pipeline
	services *fakeServices
	procs    *fakeProcs
	registry *fakeRegistry
	env      *fakeEnv
	fs       *fakeFS
	commands []execute.Options
}

func newFixture() *fixture {
	f := &fixture{
		services: &fakeServices{},
		procs:    &fakeProcs{},
		registry: &fakeRegistry{values: map[string]map[string]string{}},
		env:      &fakeEnv{vars: map[winsys.Scope]map[string]string{}},
		fs:       &fakeFS{dirs: map[string]bool{}, files: map[string]bool{}},
	}
	f.pipeline = &Pipeline{
		Product:  policy.Cygwin(),
		Services: f.services,
		Procs:    f.procs,
		Registry: f.registry,
		Env:      f.env,
		FS:       f.fs,
		RunCommand: func(_ context.Context, opts execute.Options) (string, error) {
			f.commands = append(f.commands, opts)
			return "", nil
		},
	}
	return f
}

// --- service manager fake ---

type fakeServices struct {
	records   []winsys.ServiceRecord
	listErr   error
	stopErr   map[string]error
	deleteErr map[string]error
	listCalls int
	stopped   []string
	deleted   []string
}

func (f *fakeServices) List(context.Context) ([]winsys.ServiceRecord, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]winsys.ServiceRecord, len(f.records))
	copy(out, f.records)
	return out, nil
}

func (f *fakeServices) Stop(_ context.Context, name string) error {
	if err := f.stopErr[name]; err != nil {
		return err
	}
	f.stopped = append(f.stopped, name)
	for i := range f.records {
		if f.records[i].Name == name {
			f.records[i].Running = false
		}
	}
	return nil
}

func (f *fakeServices) Delete(_ context.Context, name string) error {
	if err := f.deleteErr[name]; err != nil {
		return err
	}
	f.deleted = append(f.deleted, name)
	kept := make([]winsys.ServiceRecord, 0, len(f.records))
	for _, rec := range f.records {
		if rec.Name != name {
			kept = append(kept, rec)
		}
	}
	f.records = kept
	return nil
}

// --- process manager fake ---

type fakeProcs struct {
	procs      []winsys.ProcessRecord
	listErr    error
	killErr    map[int32]error
	keepOnKill bool
	listCalls  int
	terminated []int32
}

func (f *fakeProcs) List(context.Context) ([]winsys.ProcessRecord, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]winsys.ProcessRecord, len(f.procs))
	copy(out, f.procs)
	return out, nil
}

func (f *fakeProcs) Terminate(_ context.Context, pid int32) error {
	if err := f.killErr[pid]; err != nil {
		return err
	}
	f.terminated = append(f.terminated, pid)
	if f.keepOnKill {
		return nil
	}
	kept := make([]winsys.ProcessRecord, 0, len(f.procs))
	for _, pr := range f.procs {
		if pr.PID != pid {
			kept = append(kept, pr)
		}
	}
	f.procs = kept
	return nil
}

// --- registry fake ---

type fakeRegistry struct {
	// values maps key.String() to its named string values; an entry
	// marks the key as existing.
	values  map[string]map[string]string
	readErr map[string]error
	delErr  map[string]error
	deleted []string
}

func (f *fakeRegistry) addKey(key policy.Key) {
	if f.values[key.String()] == nil {
		f.values[key.String()] = map[string]string{}
	}
}

func (f *fakeRegistry) setValue(key policy.Key, name, value string) {
	f.addKey(key)
	f.values[key.String()][name] = value
}

// KeyExists mirrors the real registry: a key exists when it was added
// directly or when any subkey lives under it.
func (f *fakeRegistry) KeyExists(key policy.Key) (bool, error) {
	if err := f.readErr[key.String()]; err != nil {
		return false, err
	}
	if _, ok := f.values[key.String()]; ok {
		return true, nil
	}
	prefix := key.String() + `\`
	for k := range f.values {
		if strings.HasPrefix(k, prefix) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRegistry) ReadString(key policy.Key, valueName string) (string, bool, error) {
	if err := f.readErr[key.String()]; err != nil {
		return "", false, err
	}
	vals, ok := f.values[key.String()]
	if !ok {
		return "", false, nil
	}
	v, ok := vals[valueName]
	return v, ok, nil
}

func (f *fakeRegistry) DeleteTree(key policy.Key) error {
	if err := f.delErr[key.String()]; err != nil {
		return err
	}
	f.deleted = append(f.deleted, key.String())
	delete(f.values, key.String())
	prefix := key.String() + `\`
	for k := range f.values {
		if strings.HasPrefix(k, prefix) {
			delete(f.values, k)
		}
	}
	return nil
}

// --- environment store fake ---

type envWrite struct {
	scope winsys.Scope
	name  string
	value string
}

type fakeEnv struct {
	vars   map[winsys.Scope]map[string]string
	getErr map[string]error
	setErr map[string]error
	writes []envWrite
	unsets []envWrite
}

func envKeyFor(scope winsys.Scope, name string) string {
	return string(scope) + "/" + name
}

func (f *fakeEnv) setVar(scope winsys.Scope, name, value string) {
	if f.vars[scope] == nil {
		f.vars[scope] = map[string]string{}
	}
	f.vars[scope][name] = value
}

func (f *fakeEnv) Get(scope winsys.Scope, name string) (string, bool, error) {
	if err := f.getErr[envKeyFor(scope, name)]; err != nil {
		return "", false, err
	}
	v, ok := f.vars[scope][name]
	return v, ok, nil
}

func (f *fakeEnv) Set(scope winsys.Scope, name, value string) error {
	if err := f.setErr[envKeyFor(scope, name)]; err != nil {
		return err
	}
	f.writes = append(f.writes, envWrite{scope: scope, name: name, value: value})
	f.setVar(scope, name, value)
	return nil
}

func (f *fakeEnv) Unset(scope winsys.Scope, name string) error {
	if err := f.setErr[envKeyFor(scope, name)]; err != nil {
		return err
	}
	if _, ok := f.vars[scope][name]; ok {
		f.unsets = append(f.unsets, envWrite{scope: scope, name: name})
		delete(f.vars[scope], name)
	}
	return nil
}

func (f *fakeEnv) writesTo(name string) []envWrite {
	var out []envWrite
	for _, w := range f.writes {
		if w.name == name {
			out = append(out, w)
		}
	}
	return out
}

// --- filesystem fake ---

type fakeFS struct {
	dirs       map[string]bool
	files      map[string]bool
	removeErr  map[string]error
	readDirErr map[string]error
	globErr    map[string]error
	removed    []string
	statCalls  int
}

func (f *fakeFS) addDir(path string)  { f.dirs[path] = true }
func (f *fakeFS) addFile(path string) { f.files[path] = true }

func (f *fakeFS) Stat(path string) (fs.FileInfo, error) {
	f.statCalls++
	if f.dirs[path] {
		return fakeFileInfo{name: filepath.Base(path), dir: true}, nil
	}
	if f.files[path] {
		return fakeFileInfo{name: filepath.Base(path)}, nil
	}
	return nil, fs.ErrNotExist
}

func (f *fakeFS) RemoveAll(path string) error {
	if err := f.removeErr[path]; err != nil {
		return err
	}
	f.removed = append(f.removed, path)
	delete(f.dirs, path)
	delete(f.files, path)
	for _, sep := range []string{"/", `\`} {
		prefix := path + sep
		for d := range f.dirs {
			if strings.HasPrefix(d, prefix) {
				delete(f.dirs, d)
			}
		}
		for fl := range f.files {
			if strings.HasPrefix(fl, prefix) {
				delete(f.files, fl)
			}
		}
	}
	return nil
}

func (f *fakeFS) Remove(path string) error {
	if err := f.removeErr[path]; err != nil {
		return err
	}
	if !f.files[path] && !f.dirs[path] {
		return fs.ErrNotExist
	}
	f.removed = append(f.removed, path)
	delete(f.files, path)
	delete(f.dirs, path)
	return nil
}

func (f *fakeFS) Glob(pattern string) ([]string, error) {
	if err := f.globErr[pattern]; err != nil {
		return nil, err
	}
	var out []string
	for p := range f.files {
		if ok, _ := filepath.Match(pattern, p); ok {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (f *fakeFS) ReadDir(path string) ([]fs.DirEntry, error) {
	if err := f.readDirErr[path]; err != nil {
		return nil, err
	}
	if !f.dirs[path] {
		return nil, fs.ErrNotExist
	}

	seen := map[string]bool{}
	var entries []fs.DirEntry
	for d := range f.dirs {
		if filepath.Dir(d) == path && !seen[filepath.Base(d)] {
			seen[filepath.Base(d)] = true
			entries = append(entries, fakeDirEntry{name: filepath.Base(d), dir: true})
		}
	}
	for fl := range f.files {
		if filepath.Dir(fl) == path && !seen[filepath.Base(fl)] {
			seen[filepath.Base(fl)] = true
			entries = append(entries, fakeDirEntry{name: filepath.Base(fl)})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	return entries, nil
}

type fakeFileInfo struct {
	name string
	dir  bool
}

func (fi fakeFileInfo) Name() string       { return fi.name }
func (fi fakeFileInfo) Size() int64        { return 0 }
func (fi fakeFileInfo) Mode() fs.FileMode  { return 0 }
func (fi fakeFileInfo) ModTime() time.Time { return time.Time{} }
func (fi fakeFileInfo) IsDir() bool        { return fi.dir }
func (fi fakeFileInfo) Sys() any           { return nil }

type fakeDirEntry struct {
	name string
	dir  bool
}

func (e fakeDirEntry) Name() string               { return e.name }
func (e fakeDirEntry) IsDir() bool                { return e.dir }
func (e fakeDirEntry) Type() fs.FileMode          { return 0 }
func (e fakeDirEntry) Info() (fs.FileInfo, error) { return fakeFileInfo{name: e.name, dir: e.dir}, nil }
