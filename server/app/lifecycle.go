// Package app 管理長生命週期元件（HTTP server 等）的啟動與優雅關閉。
package app

import "context"

// Component 可啟動 / 可關閉的元件。
// Run 阻塞到元件停止；Shutdown 要求優雅關閉，實作方需尊重 ctx 的期限。
type Component interface {
	Run() error
	Shutdown(ctx context.Context) error
}
