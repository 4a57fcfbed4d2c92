package rotation

import (
	"cmp"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/iamNilotpal/rotlog/internal/core/ports"
	rerrors "github.com/iamNilotpal/rotlog/pkg/errors"
	"github.com/iamNilotpal/rotlog/pkg/fs"
	"go.uber.org/zap"
)

// CountingTransferPolicy shifts numbered backups up by one age on every
// rotation and deletes the ones that would reach the configured maximum.
//
// Given the active file "app.log" and maxBackups 3, a rotation turns
// "app.log.1" into "app.log.2", "app.log" into "app.log.1" and deletes
// whatever would have become "app.log.3".
type CountingTransferPolicy struct {
	maxBackups int
	permission os.FileMode
	fs         ports.FileSystem
	log        *zap.SugaredLogger
}

// TransferOption customizes a CountingTransferPolicy.
type TransferOption func(*CountingTransferPolicy)

// WithTransferFileSystem replaces the host filesystem, mainly for tests.
func WithTransferFileSystem(fsys ports.FileSystem) TransferOption {
	return func(p *CountingTransferPolicy) {
		if fsys != nil {
			p.fs = fsys
		}
	}
}

// WithTransferLogger sets the logger receiving per-backup failures.
func WithTransferLogger(log *zap.SugaredLogger) TransferOption {
	return func(p *CountingTransferPolicy) {
		if log != nil {
			p.log = log
		}
	}
}

// WithTransferPermission sets the permission of the recreated active file.
func WithTransferPermission(perm os.FileMode) TransferOption {
	return func(p *CountingTransferPolicy) {
		if perm != 0 {
			p.permission = perm
		}
	}
}

// NewCountingTransferPolicy creates a policy retaining at most maxBackups
// files per rotation, the rotated file included. Values below 1 are clamped to 1.
func NewCountingTransferPolicy(maxBackups int, opts ...TransferOption) *CountingTransferPolicy {
	p := &CountingTransferPolicy{
		maxBackups: clampMaxBackups(maxBackups),
		permission: DefaultFilePermission,
		fs:         fs.NewLocalFileSystem(),
		log:        zap.NewNop().Sugar(),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

func (p *CountingTransferPolicy) MaxBackups() int {
	return p.maxBackups
}

type candidate struct {
	name string
	age  uint64
}

// Perform renumbers every file belonging to activePath, highest age first,
// so that a rename never lands on a file that has not been moved yet.
//
// A failure on a numbered backup is logged and the pass continues, but the
// slot it still occupies is never used as a rename destination: younger files
// that would land on it stay where they are. The first failure is returned
// once the pass is over. A failure on the active file, or the active file
// being held in place, leaves it untouched and no empty replacement is created.
func (p *CountingTransferPolicy) Perform(activePath string, recreateActive bool) error {
	target, err := p.resolve(activePath)
	if err != nil {
		return err
	}

	dir, base := filepath.Split(target)
	if dir == "" {
		dir = "."
	}

	names, err := p.fs.ReadDir(dir)
	if err != nil {
		return rerrors.NewStreamError(rerrors.KindIO, "list backups", dir, err)
	}

	candidates := make([]candidate, 0, len(names))
	for _, name := range names {
		if age, ok := fs.ParseAge(base, name); ok {
			candidates = append(candidates, candidate{name: name, age: age})
		}
	}

	slices.SortFunc(candidates, func(a, b candidate) int {
		return cmp.Compare(b.age, a.age)
	})

	var firstErr error
	occupied := make(map[uint64]bool)

	for _, c := range candidates {
		from := filepath.Join(dir, c.name)
		newAge := c.age + 1

		if newAge < uint64(p.maxBackups) && occupied[newAge] {
			occupied[c.age] = true
			p.log.Warnw("Kept backup in place", "path", from, "age", c.age, "blockedBy", newAge)
			continue
		}

		var op string
		if newAge >= uint64(p.maxBackups) {
			op = "remove"
			err = p.fs.Remove(from)
		} else {
			op = "rename"
			err = p.fs.Rename(from, filepath.Join(dir, fs.BackupName(base, newAge)))
		}

		if err == nil {
			continue
		}

		serr := rerrors.NewStreamError(rerrors.KindIO, op, from, err)
		if c.age == 0 {
			return serr
		}

		occupied[c.age] = true
		p.log.Warnw("Failed to rotate backup", "path", from, "age", c.age, "op", op, "error", err)
		if firstErr == nil {
			firstErr = serr
		}
	}

	if recreateActive && !occupied[0] {
		if err := p.fs.WriteFile(target, p.permission, nil); err != nil {
			serr := rerrors.NewStreamError(rerrors.KindIO, "create", target, err)
			if firstErr == nil {
				return serr
			}
			p.log.Errorw("Failed to recreate active file", "path", target, "error", err)
		}
	}

	return firstErr
}

// resolve follows symlinks of an existing active path so backups are created
// next to the real file, and rejects directories.
func (p *CountingTransferPolicy) resolve(activePath string) (string, error) {
	info, err := p.fs.Stat(activePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return activePath, nil
		}
		return "", rerrors.NewStreamError(rerrors.KindIO, "stat", activePath, err)
	}

	if info.IsDir() {
		return "", rerrors.NewStreamError(
			rerrors.KindInvalidTarget, "rotate", activePath, fmt.Errorf("path is a directory"),
		)
	}

	resolved, err := p.fs.EvalSymlinks(activePath)
	if err != nil {
		return "", rerrors.NewStreamError(rerrors.KindIO, "resolve", activePath, err)
	}

	return resolved, nil
}

// Transfer rotates path without recreating the active file.
func Transfer(policy ports.TransferPolicy, path string) error {
	return policy.Perform(path, false)
}
