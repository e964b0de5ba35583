package adapters

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"syscall"

	"alertcast/internal/core/logger"
	"alertcast/internal/features/overlay/domain"
	"alertcast/internal/features/overlay/ports"

	"go.uber.org/zap"
)

// Placeholders understood in configured player/narrator command templates.
const (
	placeholderURL   = "{url}"
	placeholderStart = "{start}"
	placeholderText  = "{text}"
)

var errNoCommand = errors.New("no command configured")

// buildArgs splits a command template and substitutes placeholders. When no
// placeholder is present, extra is appended as the final argument.
func buildArgs(template string, substitutions map[string]string, extra string) []string {
	fields := strings.Fields(template)
	substituted := false

	args := make([]string, 0, len(fields)+1)
	for _, f := range fields {
		for placeholder, value := range substitutions {
			if strings.Contains(f, placeholder) {
				f = strings.ReplaceAll(f, placeholder, value)
				substituted = true
			}
		}
		args = append(args, f)
	}

	if !substituted && extra != "" {
		args = append(args, extra)
	}
	return args
}

// process wraps one external media process with pause/resume via signals.
type process struct {
	mu     sync.Mutex
	cmd    *exec.Cmd
	killed bool
}

func (p *process) start(args []string, onExit func(clean bool)) error {
	if len(args) == 0 {
		return errNoCommand
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	cmd := exec.Command(args[0], args[1:]...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", args[0], err)
	}

	p.cmd = cmd
	p.killed = false

	go func() {
		err := cmd.Wait()

		p.mu.Lock()
		killed := p.killed
		if p.cmd == cmd {
			p.cmd = nil
		}
		p.mu.Unlock()

		if onExit != nil {
			onExit(!killed && err == nil)
		}
	}()

	return nil
}

func (p *process) signal(sig syscall.Signal) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cmd != nil && p.cmd.Process != nil {
		p.cmd.Process.Signal(sig)
	}
}

func (p *process) kill() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cmd != nil && p.cmd.Process != nil {
		p.killed = true
		p.cmd.Process.Kill()
	}
}

// ExecAudioPlayer plays the background alert audio through an external
// command (e.g. "ffplay -nodisp -autoexit alert.wav").
type ExecAudioPlayer struct {
	command string
	proc    process
	log     *zap.Logger
}

// NewExecAudioPlayer creates an audio player. An empty command disables playback.
func NewExecAudioPlayer(command string) *ExecAudioPlayer {
	return &ExecAudioPlayer{command: command, log: logger.Named("audio")}
}

// Play starts the audio process. No-op when no command is configured.
func (a *ExecAudioPlayer) Play() error {
	if a.command == "" {
		return nil
	}
	a.log.Debug("Playing alert audio", zap.String("command", a.command))
	return a.proc.start(buildArgs(a.command, nil, ""), nil)
}

// Pause suspends the audio process.
func (a *ExecAudioPlayer) Pause() { a.proc.signal(syscall.SIGSTOP) }

// Resume continues a paused audio process.
func (a *ExecAudioPlayer) Resume() { a.proc.signal(syscall.SIGCONT) }

// Stop kills the audio process.
func (a *ExecAudioPlayer) Stop() { a.proc.kill() }

// ExecNarrator speaks donation announcements through an external
// text-to-speech command (e.g. "espeak {text}").
type ExecNarrator struct {
	command string
	proc    process
	log     *zap.Logger
}

// NewExecNarrator creates a narrator. An empty command disables narration.
func NewExecNarrator(command string) *ExecNarrator {
	return &ExecNarrator{command: command, log: logger.Named("narrator")}
}

// Speak starts narrating text. No-op when no command is configured.
func (n *ExecNarrator) Speak(text string) error {
	if n.command == "" {
		return nil
	}
	n.log.Debug("Narrating", zap.Int("chars", len(text)))
	args := buildArgs(n.command, map[string]string{placeholderText: text}, text)
	return n.proc.start(args, nil)
}

// Pause suspends narration.
func (n *ExecNarrator) Pause() { n.proc.signal(syscall.SIGSTOP) }

// Resume continues paused narration.
func (n *ExecNarrator) Resume() { n.proc.signal(syscall.SIGCONT) }

// Stop cancels narration, fired at the fixed cutoff even mid-sentence.
func (n *ExecNarrator) Stop() { n.proc.kill() }

// ExecVideoPlayer plays native video through an external player command.
// Process exit is the end-of-playback signal, which feeds the
// loop-until-alert-expires policy.
type ExecVideoPlayer struct {
	command string
	media   domain.MediaBinding
	proc    process
	ended   chan struct{}
	log     *zap.Logger
}

// Start launches playback at the given offset.
func (v *ExecVideoPlayer) Start(seekSeconds float64) error {
	v.log.Debug("Starting playback",
		zap.String("url", v.media.URL),
		zap.Float64("start", seekSeconds),
	)
	args := buildArgs(v.command, map[string]string{
		placeholderURL:   v.media.URL,
		placeholderStart: fmt.Sprintf("%.0f", seekSeconds),
	}, v.media.URL)

	return v.proc.start(args, func(clean bool) {
		if !clean {
			return
		}
		select {
		case v.ended <- struct{}{}:
		default:
		}
	})
}

// Ended signals natural end-of-playback.
func (v *ExecVideoPlayer) Ended() <-chan struct{} { return v.ended }

// Pause suspends playback.
func (v *ExecVideoPlayer) Pause() { v.proc.signal(syscall.SIGSTOP) }

// Resume continues paused playback.
func (v *ExecVideoPlayer) Resume() { v.proc.signal(syscall.SIGCONT) }

// Destroy kills the player process without signalling an end.
func (v *ExecVideoPlayer) Destroy() { v.proc.kill() }

// StaticPlayer backs media kinds without playback control: images and
// embedded platform players the renderer displays by reference. It never
// signals an end, so such media never loops.
type StaticPlayer struct{}

// Start is a no-op; the renderer shows the media by reference.
func (s *StaticPlayer) Start(seekSeconds float64) error { return nil }

// Ended returns nil: receiving from it blocks forever.
func (s *StaticPlayer) Ended() <-chan struct{} { return nil }

// Pause is a no-op.
func (s *StaticPlayer) Pause() {}

// Resume is a no-op.
func (s *StaticPlayer) Resume() {}

// Destroy is a no-op.
func (s *StaticPlayer) Destroy() {}

// ExecPlayerFactory builds the player implementation for each media kind.
type ExecPlayerFactory struct {
	videoCommand string
}

// NewExecPlayerFactory creates a factory. An empty video command downgrades
// native video to a static display.
func NewExecPlayerFactory(videoCommand string) *ExecPlayerFactory {
	return &ExecPlayerFactory{videoCommand: videoCommand}
}

// NewPlayer returns the player for the binding's kind.
func (f *ExecPlayerFactory) NewPlayer(media domain.MediaBinding) (ports.MediaPlayer, error) {
	if media.Kind == domain.MediaKindVideo && f.videoCommand != "" {
		return &ExecVideoPlayer{
			command: f.videoCommand,
			media:   media,
			ended:   make(chan struct{}, 1),
			log:     logger.Named("player"),
		}, nil
	}
	return &StaticPlayer{}, nil
}
