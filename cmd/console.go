package cmd

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"sfxpool/host"
	"sfxpool/sfx"
)

var errUsage = errors.New("usage")

// console executes one text command per line against a host
type console struct {
	host *host.Host
	out  io.Writer
}

func newConsole(h *host.Host, out io.Writer) *console {
	return &console{host: h, out: out}
}

// handle runs line and reports whether the console should keep reading
func (c *console) handle(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return true
	}

	var err error
	switch fields[0] {
	case "quit", "exit":
		return false
	case "play":
		err = c.play(fields[1:])
	case "play3d":
		err = c.play3D(fields[1:])
	case "listener":
		err = c.listener(fields[1:])
	case "pause":
		c.host.Engine().Pause()
	case "resume":
		c.host.Engine().Resume()
	case "stats":
		c.stats()
	default:
		err = fmt.Errorf("unknown command %q", fields[0])
	}

	if errors.Is(err, errUsage) {
		fmt.Fprintln(c.out, err)
	} else if err != nil {
		fmt.Fprintf(c.out, "error: %v\n", err)
	}
	return true
}

func (c *console) play(args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("%w: play <sound> [volume]", errUsage)
	}
	opts, err := volumeOption(args[1:])
	if err != nil {
		return err
	}
	return c.host.Play(args[0], opts...)
}

func (c *console) play3D(args []string) error {
	if len(args) < 4 || len(args) > 5 {
		return fmt.Errorf("%w: play3d <sound> <x> <y> <z> [volume]", errUsage)
	}
	pos, err := parseVec(args[1:4])
	if err != nil {
		return err
	}
	opts, err := volumeOption(args[4:])
	if err != nil {
		return err
	}
	return c.host.PlayAt(args[0], pos, opts...)
}

func (c *console) listener(args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("%w: listener <x> <y> <z>", errUsage)
	}
	pos, err := parseVec(args)
	if err != nil {
		return err
	}
	c.host.Engine().SetListener(pos)
	return nil
}

func (c *console) stats() {
	pool := c.host.Dispatcher().Pool()
	if pool == nil {
		fmt.Fprintln(c.out, "channels: not initialized")
		return
	}
	s := c.host.Dispatcher().Stats()
	fmt.Fprintf(c.out, "channels: %d busy, %d idle, %d plays, %d stolen\n",
		pool.Busy(), pool.Idle(), s.Plays, s.Steals)
}

func volumeOption(args []string) ([]sfx.PlayOption, error) {
	if len(args) == 0 {
		return nil, nil
	}
	v, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return nil, fmt.Errorf("invalid volume %q", args[0])
	}
	return []sfx.PlayOption{sfx.WithVolume(v)}, nil
}

func parseVec(args []string) (sfx.Vec3, error) {
	var xyz [3]float64
	for i, a := range args {
		f, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return sfx.Vec3{}, fmt.Errorf("invalid coordinate %q", a)
		}
		xyz[i] = f
	}
	return sfx.Vec3{X: xyz[0], Y: xyz[1], Z: xyz[2]}, nil
}
