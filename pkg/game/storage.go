package game

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// AppName 是 gdata 存储使用的应用名（决定存档目录）
const AppName = "trashcatch"

// OpenStorage 打开跨平台存储
// 失败时返回 nil 和错误，调用方应以 nil 继续运行（降级为仅内存模式）
func OpenStorage(appName string) (*gdata.Manager, error) {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("failed to open gdata storage: %w", err)
	}
	return m, nil
}

// yamlStore 把一个 YAML 对象存放在 gdata 的 object/property 下
// manager 为 nil 时所有操作都是空操作
type yamlStore struct {
	manager  *gdata.Manager
	object   string
	property string
}

// exists 检查存储中是否已有数据
func (s yamlStore) exists() bool {
	if s.manager == nil {
		return false
	}
	return s.manager.ObjectPropExists(s.object, s.property)
}

// load 读取并反序列化到 out
// 返回 (false, nil) 表示没有已保存的数据
func (s yamlStore) load(out any) (bool, error) {
	if !s.exists() {
		return false, nil
	}
	data, err := s.manager.LoadObjectProp(s.object, s.property)
	if err != nil {
		return false, fmt.Errorf("failed to load %s/%s: %w", s.object, s.property, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("failed to unmarshal %s/%s: %w", s.object, s.property, err)
	}
	return true, nil
}

// save 序列化并写入存储
func (s yamlStore) save(v any) error {
	if s.manager == nil {
		return nil
	}
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s/%s: %w", s.object, s.property, err)
	}
	if err := s.manager.SaveObjectProp(s.object, s.property, data); err != nil {
		return fmt.Errorf("failed to save %s/%s: %w", s.object, s.property, err)
	}
	log.Printf("[Storage] %s/%s saved", s.object, s.property)
	return nil
}
