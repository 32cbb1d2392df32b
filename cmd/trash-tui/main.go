// trash-tui 终端版回收游戏，使用鼠标拖拽垃圾
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/decker502/trashcatch/pkg/config"
	"github.com/decker502/trashcatch/pkg/replay"
	"github.com/decker502/trashcatch/pkg/sim"
)

var (
	seed       = flag.Int64("seed", 0, "随机种子（0 表示使用当前时间）")
	tuningPath = flag.String("tuning", "", "数值配置文件（默认使用内置配置）")
	recordPath = flag.String("record", "", "把第一局录制到该文件（.jsonl.zst）")
	logPath    = flag.String("log", "", "日志文件（终端被游戏占用，默认不输出日志）")
	mute       = flag.Bool("mute", false, "不初始化音频")
	debug      = flag.Bool("debug", false, "启用调试按键（n 生成 / l 跳关 / p 猫爪 / r 重开）")
)

func main() {
	flag.Parse()
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "trash-tui:", err)
		os.Exit(1)
	}
}

func run() error {
	log.SetOutput(io.Discard)
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log: %w", err)
		}
		defer f.Close()
		log.SetOutput(f)
	}

	tuning, err := config.ResolveTuning(*tuningPath)
	if err != nil {
		return err
	}
	s := *seed
	if s == 0 {
		s = time.Now().UnixNano()
	}
	session := sim.NewSession(tuning, s)

	var recorder *replay.Recorder
	if *recordPath != "" {
		recorder, err = replay.Create(*recordPath, s, tuning)
		if err != nil {
			return err
		}
		session.SetRecorder(recorder)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.HideCursor()

	sound := newSoundPlayer(!*mute)
	g := newTUIGame(screen, tuning, session, sound, *debug)
	g.recorder = recorder
	g.recorded = session
	log.Printf("[TUI] 开始（种子 %d）", s)

	g.run()

	screen.Fini()
	sound.close()
	g.finishRecording()
	return nil
}
