package http

import (
	"net"
	"net/http"
	"time"
)

// BaaSは単一ホストなので、接続プールはすべてそのホスト向けに使う
const (
	baasIdleConns = 64
	baasMaxConns  = 128

	dialTimeout           = 3 * time.Second
	tlsHandshakeTimeout   = 3 * time.Second
	idleConnTimeout       = 60 * time.Second
	expectContinueTimeout = time.Second
)

// NewHTTPClient はBaaS呼び出し用のHTTPクライアントを作成します。
// ブラウザからの1リクエストごとに1〜2回BaaSを呼ぶため、接続を使い回せるよう
// ホスト単位のアイドル接続数を全体の上限と揃えています。
// MaxConnsPerHostは急増時にBaaSへのソケットが際限なく増えないための上限です。
// timeoutはリクエスト全体とレスポンスヘッダ待ちの両方に使います。
func NewHTTPClient(timeout time.Duration) *http.Client {
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   dialTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          baasIdleConns,
		MaxIdleConnsPerHost:   baasIdleConns,
		MaxConnsPerHost:       baasMaxConns,
		IdleConnTimeout:       idleConnTimeout,
		TLSHandshakeTimeout:   tlsHandshakeTimeout,
		ResponseHeaderTimeout: timeout,
		ExpectContinueTimeout: expectContinueTimeout,
	}
	return &http.Client{Timeout: timeout, Transport: t}
}
