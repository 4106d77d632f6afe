package netsvr

import (
	"net/http"

	"github.com/zintix-labs/bjlab/server/app"
)

// NetSvr 路由 + 啟停。只交給最外層組裝使用；其餘模組面向 NetRouter。
// 換 http 框架時實作這個介面即可，前提是 handler 仍是 net/http 相容。
type NetSvr interface {
	NetRouter
	app.Component
}

// NetRouter 純路由行為；Group 回呼只拿得到 NetRouter，碰不到 Run/Shutdown。
type NetRouter interface {
	Use(middleware func(http.Handler) http.Handler)

	Get(path string, h http.HandlerFunc)
	Post(path string, h http.HandlerFunc)
	Put(path string, h http.HandlerFunc)
	Delete(path string, h http.HandlerFunc)

	Group(path string, fn func(NetRouter))
}
