package link

import (
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/golang/glog"

	"github.com/robotalks/sysid.go/pkg/link/serial"
	"github.com/robotalks/sysid.go/pkg/link/websocket"
)

// Open opens a link by address:
//
//	/dev/ttyUSB0
//	serial:///dev/ttyUSB0?baud=115200
//	ws://localhost:8080/device
func Open(addr string) (io.ReadWriteCloser, error) {
	if !strings.Contains(addr, "://") {
		return openSerial(addr, 0)
	}
	u, err := url.Parse(addr)
	if err != nil {
		return nil, err
	}
	switch u.Scheme {
	case "serial":
		baud := 0
		if s := u.Query().Get("baud"); s != "" {
			if baud, err = strconv.Atoi(s); err != nil {
				return nil, fmt.Errorf("invalid baud %q: %w", s, err)
			}
		}
		name := u.Path
		if u.Host != "" {
			name = u.Host + u.Path
		}
		return openSerial(name, baud)
	case "ws", "wss":
		glog.V(2).Infof("dial %s", addr)
		return websocket.Dial(addr)
	default:
		return nil, fmt.Errorf("unsupported link %q", addr)
	}
}

func openSerial(name string, baud int) (io.ReadWriteCloser, error) {
	glog.V(2).Infof("open serial %s baud %d", name, baud)
	p, err := serial.Open(name, baud)
	if err != nil {
		return nil, err
	}
	return p, nil
}
