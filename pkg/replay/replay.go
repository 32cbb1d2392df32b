// Package replay 录制和回放一局游戏的指针输入
//
// 文件格式为 zstd 压缩的 JSONL：第一行是头部（种子、数值摘要），
// 之后每行一个指针事件或调试命令，最后一行是结束状态。
// 回放时用相同的种子重建 Session，在记录的帧号上重新注入输入，
// 然后比较结束状态。
package replay

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"

	"github.com/decker502/trashcatch/pkg/config"
	"github.com/decker502/trashcatch/pkg/sim"
	"github.com/decker502/trashcatch/pkg/systems"
)

// FormatVersion 录像格式版本，版本 2 加入调试命令行
const FormatVersion = 2

const (
	lineHeader  = "header"
	lineInput   = "input"
	lineCommand = "command"
	lineTrailer = "trailer"
)

// Header 录像头部
type Header struct {
	Version   int    `json:"version"`
	Seed      int64  `json:"seed"`
	Digest    string `json:"digest"`
	FrameRate int    `json:"frameRate"`
}

// Input 一个指针输入或调试命令
type Input struct {
	Frame   uint64  `json:"frame"`
	Kind    string  `json:"kind"` // 指针事件类型或命令名
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Command bool    `json:"command,omitempty"`
}

// Trailer 录像结束时的状态
type Trailer struct {
	Frame    uint64 `json:"frame"`
	Level    int    `json:"level"`
	Recycled int    `json:"recycled"`
}

// line 是文件中的一行，Type 决定哪些字段有效
type line struct {
	Type      string  `json:"type"`
	Version   int     `json:"version,omitempty"`
	Seed      int64   `json:"seed,omitempty"`
	Digest    string  `json:"digest,omitempty"`
	FrameRate int     `json:"frameRate,omitempty"`
	Frame     uint64  `json:"frame"`
	Kind      string  `json:"kind,omitempty"`
	X         float64 `json:"x,omitempty"`
	Y         float64 `json:"y,omitempty"`
	Level     int     `json:"level,omitempty"`
	Recycled  int     `json:"recycled,omitempty"`
}

// Recorder 写入录像，实现 sim.InputRecorder
type Recorder struct {
	closer io.Closer // 底层文件，可为 nil
	enc    *zstd.Encoder
	w      *bufio.Writer
	done   bool
}

// Create 创建录像文件并写入头部
func Create(path string, seed int64, t config.Tuning) (*Recorder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create replay file: %w", err)
	}
	r, err := NewRecorder(f, seed, t)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	r.closer = f
	return r, nil
}

// NewRecorder 在 w 上创建录像并写入头部
func NewRecorder(w io.Writer, seed int64, t config.Tuning) (*Recorder, error) {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	r := &Recorder{enc: enc, w: bufio.NewWriter(enc)}
	header := line{Type: lineHeader, Version: FormatVersion, Seed: seed, Digest: t.Digest(), FrameRate: t.FrameRate}
	if err := r.write(header); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Recorder) write(l line) error {
	b, err := json.Marshal(l)
	if err != nil {
		return err
	}
	if _, err := r.w.Write(b); err != nil {
		return err
	}
	return r.w.WriteByte('\n')
}

// RecordInput 追加一个输入
func (r *Recorder) RecordInput(frame uint64, ev systems.PointerEvent) error {
	if r.done {
		return errors.New("replay recorder already finished")
	}
	return r.write(line{Type: lineInput, Frame: frame, Kind: ev.Kind.String(), X: ev.X, Y: ev.Y})
}

// RecordCommand 追加一个调试命令
func (r *Recorder) RecordCommand(frame uint64, cmd sim.Command) error {
	if r.done {
		return errors.New("replay recorder already finished")
	}
	return r.write(line{Type: lineCommand, Frame: frame, Kind: string(cmd)})
}

// Finish 写入结束状态并关闭录像
func (r *Recorder) Finish(s *sim.Session) error {
	if r.done {
		return nil
	}
	err := r.write(line{Type: lineTrailer, Frame: s.Frame(), Level: s.Level(), Recycled: s.Recycled()})
	return errors.Join(err, r.Close())
}

// Close 刷新并关闭录像（不写结束状态）
func (r *Recorder) Close() error {
	if r.done {
		return nil
	}
	r.done = true
	err := r.w.Flush()
	err = errors.Join(err, r.enc.Close())
	if r.closer != nil {
		err = errors.Join(err, r.closer.Close())
	}
	return err
}

// Replay 读取到的一份录像
type Replay struct {
	Header  Header
	Inputs  []Input
	Trailer *Trailer // 录像未正常结束时为 nil
}

// Open 读取录像文件
func Open(path string) (*Replay, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open replay file: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Read 从 r 读取录像
func Read(r io.Reader) (*Replay, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	defer dec.Close()

	rep := &Replay{}
	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		var l line
		if err := json.Unmarshal(sc.Bytes(), &l); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		switch {
		case lineNo == 1:
			if l.Type != lineHeader {
				return nil, fmt.Errorf("line 1: expected header, got %q", l.Type)
			}
			rep.Header = Header{Version: l.Version, Seed: l.Seed, Digest: l.Digest, FrameRate: l.FrameRate}
		case rep.Trailer != nil:
			return nil, fmt.Errorf("line %d: data after trailer", lineNo)
		case l.Type == lineInput || l.Type == lineCommand:
			isCmd := l.Type == lineCommand
			if isCmd {
				if _, ok := sim.ParseCommand(l.Kind); !ok {
					return nil, fmt.Errorf("line %d: unknown command %q", lineNo, l.Kind)
				}
			} else if _, ok := systems.ParsePointerKind(l.Kind); !ok {
				return nil, fmt.Errorf("line %d: unknown pointer kind %q", lineNo, l.Kind)
			}
			if n := len(rep.Inputs); n > 0 && l.Frame < rep.Inputs[n-1].Frame {
				return nil, fmt.Errorf("line %d: frame %d goes backwards", lineNo, l.Frame)
			}
			rep.Inputs = append(rep.Inputs, Input{Frame: l.Frame, Kind: l.Kind, X: l.X, Y: l.Y, Command: isCmd})
		case l.Type == lineTrailer:
			rep.Trailer = &Trailer{Frame: l.Frame, Level: l.Level, Recycled: l.Recycled}
		default:
			return nil, fmt.Errorf("line %d: unexpected %q", lineNo, l.Type)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read replay: %w", err)
	}
	if lineNo == 0 {
		return nil, errors.New("empty replay")
	}
	if rep.Header.Version < 1 || rep.Header.Version > FormatVersion {
		return nil, fmt.Errorf("unsupported replay version %d", rep.Header.Version)
	}
	return rep, nil
}

// Result 回放结果
type Result struct {
	Frame    uint64
	Level    int
	Recycled int
	// Match 回放后的关卡和回收数量与结束状态一致（没有结束状态时为 false）
	Match bool
}

// ErrDigestMismatch 数值配置与录像时不同
var ErrDigestMismatch = errors.New("tuning digest does not match replay")

// Run 用数值配置 t 重新模拟录像
func Run(rep *Replay, t config.Tuning) (Result, error) {
	if rep.Header.Digest != t.Digest() {
		return Result{}, ErrDigestMismatch
	}
	s := sim.NewSession(t, rep.Header.Seed)
	for _, in := range rep.Inputs {
		for s.Frame() < in.Frame {
			s.Step()
		}
		if in.Command {
			cmd, _ := sim.ParseCommand(in.Kind)
			s.Command(cmd)
			continue
		}
		kind, _ := systems.ParsePointerKind(in.Kind)
		s.HandlePointer(systems.PointerEvent{Kind: kind, X: in.X, Y: in.Y})
	}
	if rep.Trailer != nil {
		for s.Frame() < rep.Trailer.Frame {
			s.Step()
		}
	}

	res := Result{Frame: s.Frame(), Level: s.Level(), Recycled: s.Recycled()}
	if tr := rep.Trailer; tr != nil {
		res.Match = tr.Frame == res.Frame && tr.Level == res.Level && tr.Recycled == res.Recycled
	}
	return res, nil
}
