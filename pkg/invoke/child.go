package invoke

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shirou/gopsutil/v4/process"

	"cmdmacro/pkg/cmdline"
)

// Child is a started process that has not been waited for yet.
type Child struct {
	cmd   *exec.Cmd
	c     *cmdline.Command
	log   *slog.Logger
	start time.Time

	once sync.Once
	res  *Result
}

// Spawn starts c with the invoker's stdio and returns without waiting.
func (iv *Invoker) Spawn(ctx context.Context, c *cmdline.Command) (*Child, error) {
	cmd := Command(ctx, c)
	iv.inherit(cmd)

	log := iv.logger().With("run", uuid.NewString(), "program", c.Program)
	log.Debug("spawn", "argc", len(c.Args), "wait", false)

	if err := cmd.Start(); err != nil {
		log.Debug("failed", "err", err)
		return nil, fmt.Errorf("spawn %s: %w", c.Program, err)
	}
	return &Child{cmd: cmd, c: c, log: log, start: time.Now()}, nil
}

func (ch *Child) Pid() int { return ch.cmd.Process.Pid }

// Wait blocks until the child exits. Later calls return the same result.
func (ch *Child) Wait() *Result {
	ch.once.Do(func() {
		err := ch.cmd.Wait()
		ch.res = newResult(ch.c, ch.cmd.ProcessState, err)
		ch.res.Duration = time.Since(ch.start)
		logExit(ch.log, ch.res)
	})
	return ch.res
}

func (ch *Child) proc() (*process.Process, error) {
	p, err := process.NewProcess(int32(ch.Pid()))
	if err != nil {
		return nil, fmt.Errorf("unable to find PID %d: %w", ch.Pid(), err)
	}
	return p, nil
}

// Kill terminates the child. Wait must still be called to reap it.
func (ch *Child) Kill() error {
	p, err := ch.proc()
	if err != nil {
		return err
	}
	if err := p.Kill(); err != nil {
		return fmt.Errorf("failed to terminate process %d: %w", ch.Pid(), err)
	}
	return nil
}

// Name is the executable name the operating system reports for the child.
func (ch *Child) Name() (string, error) {
	p, err := ch.proc()
	if err != nil {
		return "", err
	}
	return p.Name()
}
