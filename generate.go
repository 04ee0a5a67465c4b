package wlclient

//go:generate go run ./cmd/wlgen -package wlclient -o protocol.go protocol/wayland.xml
