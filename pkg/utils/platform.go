//go:build !mobile

package utils

import "os"

// MobileEmulateEnv 设为 "1" 时桌面端按移动端运行（本地调试触摸布局）
const MobileEmulateEnv = "TRASH_MOBILE_EMULATE"

// IsMobile 是否按移动端运行：没有窗口全屏切换，没有键盘快捷键
func IsMobile() bool {
	return os.Getenv(MobileEmulateEnv) == "1"
}
