package proxy

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/shirou/gopsutil/v4/process"
	"go.uber.org/zap"
)

// engineProcess is the subset of *process.Process the reaper needs
type engineProcess interface {
	PID() int32
	NameWithContext(ctx context.Context) (string, error)
	TerminateWithContext(ctx context.Context) error
}

// EngineReaper terminates proxy engine processes left running by the app
type EngineReaper struct {
	logger *zap.SugaredLogger
	name   string

	list func(ctx context.Context) ([]engineProcess, error)
	self int32
}

// NewEngineReaper creates a reaper matching processes named name (".exe" suffix ignored)
func NewEngineReaper(logger *zap.SugaredLogger, name string) *EngineReaper {
	return &EngineReaper{
		logger: logger,
		name:   name,
		list:   listProcesses,
		self:   int32(os.Getpid()),
	}
}

// Reap terminates every matching process and returns how many were stopped.
// A process that exits between listing and termination is not an error.
func (r *EngineReaper) Reap(ctx context.Context) (int, error) {
	if r.name == "" {
		return 0, nil
	}

	procs, err := r.list(ctx)
	if err != nil {
		return 0, fmt.Errorf("list processes: %w", err)
	}

	var (
		stopped int
		errs    []error
	)
	for _, p := range procs {
		if p.PID() == r.self {
			continue
		}

		name, err := p.NameWithContext(ctx)
		if err != nil || !r.matches(name) {
			continue
		}

		if err := p.TerminateWithContext(ctx); err != nil {
			if errors.Is(err, process.ErrorProcessNotRunning) {
				continue
			}
			errs = append(errs, fmt.Errorf("terminate %s: %w", name, err))
			continue
		}
		stopped++
		r.logger.Debugw("Engine process terminated", "name", name)
	}

	return stopped, errors.Join(errs...)
}

func (r *EngineReaper) matches(name string) bool {
	return strings.EqualFold(strings.TrimSuffix(strings.ToLower(name), ".exe"), r.name)
}

// listProcesses adapts gopsutil processes to engineProcess
func listProcesses(ctx context.Context) ([]engineProcess, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]engineProcess, 0, len(procs))
	for _, p := range procs {
		out = append(out, pidProcess{p})
	}
	return out, nil
}

type pidProcess struct {
	*process.Process
}

func (p pidProcess) PID() int32 {
	return p.Process.Pid
}
