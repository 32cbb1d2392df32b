package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/decker502/trashcatch/pkg/app"
	"github.com/decker502/trashcatch/pkg/embedded"
)

var (
	verbose    = flag.Bool("verbose", false, "显示详细日志")
	debug      = flag.Bool("debug", false, "启用调试按键（N 生成 / L 跳关 / P 猫爪 / R 重开）和调试绘制")
	seed       = flag.Int64("seed", 0, "第一局的随机种子（0 表示使用当前时间）")
	tuningPath = flag.String("tuning", "", "数值配置文件（默认使用内置配置）")
	recordPath = flag.String("record", "", "把第一局录制到该文件（.jsonl.zst）")
)

func main() {
	flag.Parse()

	// dataFS 在 embed.go 中声明
	embedded.Init(dataFS)

	gameApp, err := app.NewApp(app.Config{
		Verbose:    *verbose,
		Debug:      *debug,
		Seed:       *seed,
		TuningPath: *tuningPath,
		RecordPath: *recordPath,
	})
	if err != nil {
		log.Fatalf("游戏初始化失败: %v", err)
	}

	w, h := gameApp.Layout(0, 0)
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle("Trash Catch")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	runErr := ebiten.RunGame(gameApp)
	gameApp.Close()
	if runErr != nil {
		log.Fatal(runErr)
	}
}
