// trash-replay 重新模拟一份录像，检查结束状态是否一致
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/decker502/trashcatch/pkg/config"
	"github.com/decker502/trashcatch/pkg/replay"
)

var (
	tuningPath = flag.String("tuning", "", "录像时使用的数值配置文件（默认使用内置配置）")
	verbose    = flag.Bool("verbose", false, "列出所有输入")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] replay.jsonl.zst\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	rep, err := replay.Open(flag.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, "open:", err)
		os.Exit(1)
	}
	tuning, err := config.ResolveTuning(*tuningPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "tuning:", err)
		os.Exit(1)
	}

	fmt.Printf("seed %d, %d inputs, frame rate %d\n", rep.Header.Seed, len(rep.Inputs), rep.Header.FrameRate)
	if *verbose {
		for _, in := range rep.Inputs {
			if in.Command {
				fmt.Printf("  frame %6d %-7s (debug)\n", in.Frame, in.Kind)
				continue
			}
			fmt.Printf("  frame %6d %-7s (%.1f, %.1f)\n", in.Frame, in.Kind, in.X, in.Y)
		}
	}

	res, err := replay.Run(rep, tuning)
	if err != nil {
		fmt.Fprintln(os.Stderr, "replay:", err)
		os.Exit(1)
	}
	fmt.Printf("replayed: frame %d, level %d, recycled %d\n", res.Frame, res.Level, res.Recycled)

	if rep.Trailer == nil {
		fmt.Println("recording has no trailer, nothing to compare")
		return
	}
	fmt.Printf("recorded: frame %d, level %d, recycled %d\n", rep.Trailer.Frame, rep.Trailer.Level, rep.Trailer.Recycled)
	if !res.Match {
		fmt.Println("MISMATCH")
		os.Exit(1)
	}
	fmt.Println("OK")
}
