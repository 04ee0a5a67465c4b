package wlclient

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/bnema/wlclient/proto"
	"github.com/bnema/wlclient/wire"
)

// tracer writes one line per message in the format libwayland uses for
// WAYLAND_DEBUG, so traces from both libraries can be compared.
type tracer struct {
	log *logrus.Logger
}

func newTracer(out io.Writer) *tracer {
	l := logrus.New()
	l.SetOutput(out)
	l.SetFormatter(traceFormatter{})
	l.SetLevel(logrus.TraceLevel)
	return &tracer{log: l}
}

type traceFormatter struct{}

func (traceFormatter) Format(e *logrus.Entry) ([]byte, error) {
	us := e.Time.UnixMicro()
	line := fmt.Sprintf("[%7d.%03d] %s\n", (us/1000)%1000000, us%1000, e.Message)
	return []byte(line), nil
}

func (t *tracer) request(obj *object, msg *proto.Message, args []wire.Arg, objs []*object) {
	t.log.Trace(" -> " + formatMessage(obj, msg, args, objs))
}

func (t *tracer) event(ev *Event) {
	t.log.Trace(formatMessage(ev.obj, ev.Message, ev.Args, ev.objects))
}

func (t *tracer) discarded(obj *object, msg *proto.Message, args []wire.Arg) {
	t.log.Trace("discarded " + formatMessage(obj, msg, args, nil))
}

func formatMessage(obj *object, msg *proto.Message, args []wire.Arg, objs []*object) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s#%d.%s(", obj.iface.Name, obj.id, msg.Name)
	for i, a := range args {
		if i > 0 {
			b.WriteString(", ")
		}
		var o *object
		if i < len(objs) {
			o = objs[i]
		}
		b.WriteString(formatArg(&msg.Args[i], a, o))
	}
	b.WriteByte(')')
	return b.String()
}

func formatArg(desc *proto.Arg, a wire.Arg, obj *object) string {
	switch desc.Type {
	case proto.Object:
		if a.Value == 0 {
			return "nil"
		}
		if obj != nil {
			return obj.iface.Name + "#" + strconv.FormatUint(uint64(a.Value), 10)
		}
		return "[unknown]#" + strconv.FormatUint(uint64(a.Value), 10)
	case proto.NewID:
		name := desc.Interface
		if desc.Dynamic() {
			name = a.Iface
		}
		if name == "" {
			name = "[unknown]"
		}
		return "new id " + name + "#" + strconv.FormatUint(uint64(a.Value), 10)
	default:
		return a.String()
	}
}

// debugEnabled interprets WAYLAND_DEBUG the way libwayland does.
func debugEnabled(v string) bool {
	return v == "1" || strings.Contains(v, "client")
}
