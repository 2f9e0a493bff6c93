package cabi

/*
#include <stdint.h>
#include <stdlib.h>

typedef void (*GoHostLogFn)(void* ctx, int32_t tag, const char* text);
typedef void (*GoSetEditorHandleFn)(void* ctx, uintptr_t hwnd);

static inline void callHostLog(GoHostLogFn fn, void* ctx, int32_t tag, const char* text) {
	fn(ctx, tag, text);
}

static inline void callSetEditorHandle(GoSetEditorHandleFn fn, void* ctx, uintptr_t hwnd) {
	fn(ctx, hwnd);
}
*/
import "C"
import (
	"unsafe"

	"github.com/vst3go/template/pkg/host"
	"github.com/vst3go/template/pkg/plugin"
	"github.com/vst3go/template/pkg/ui/window"
)

func bytesAt(p unsafe.Pointer, n int) []byte {
	if p == nil || n <= 0 {
		return nil
	}
	return unsafe.Slice((*byte)(p), n)
}

func samplesAt(p *C.float, frames int) []host.Sample {
	if p == nil || frames <= 0 {
		return nil
	}
	return unsafe.Slice((*host.Sample)(unsafe.Pointer(p)), frames)
}

//export GoCreateInstance
func GoCreateInstance(logFn C.GoHostLogFn, ctx unsafe.Pointer, tag C.int32_t) C.uintptr_t {
	var log func(host.Tag, string)
	if logFn != nil {
		log = func(tag host.Tag, text string) {
			cs := C.CString(text)
			defer C.free(unsafe.Pointer(cs))
			C.callHostLog(logFn, ctx, C.int32_t(tag), cs)
		}
	}
	return C.uintptr_t(createInstance(plugin.Default(), log, host.Tag(tag)))
}

//export GoReleaseInstance
func GoReleaseInstance(id C.uintptr_t) C.int32_t {
	return C.int32_t(releaseInstance(plugin.Default(), uintptr(id)))
}

//export GoSetProxy
func GoSetProxy(id C.uintptr_t, fn C.GoSetEditorHandleFn, ctx unsafe.Pointer) {
	if fn == nil {
		return
	}
	setProxy(plugin.Default(), uintptr(id), func(w window.Handle) {
		C.callSetEditorHandle(fn, ctx, C.uintptr_t(w.Raw()))
	})
}

//export GoOnMessage
func GoOnMessage(id C.uintptr_t, msgID, index C.int32_t, value C.int64_t) C.int64_t {
	return C.int64_t(onMessage(plugin.Default(), uintptr(id), int32(msgID), int32(index), int64(value)))
}

//export GoNameOf
func GoNameOf(id C.uintptr_t, q C.int32_t, buf *C.char, size C.int32_t) C.int32_t {
	return C.int32_t(nameOf(plugin.Default(), uintptr(id), host.GetName(q), bytesAt(unsafe.Pointer(buf), int(size))))
}

//export GoRender
func GoRender(id C.uintptr_t, in, out *C.float, frames C.int32_t) {
	plugin.Default().Render(uintptr(id), samplesAt(in, int(frames)), samplesAt(out, int(frames)))
}

//export GoTick
func GoTick(id C.uintptr_t) {
	plugin.Default().Tick(uintptr(id))
}

//export GoProcessParam
func GoProcessParam(id C.uintptr_t, index C.int32_t, value C.int64_t, flags C.uint32_t) C.int64_t {
	return C.int64_t(plugin.Default().ProcessParam(uintptr(id), int(index), int64(value), host.ProcessParamFlags(flags)))
}

//export GoSaveState
func GoSaveState(id C.uintptr_t, buf unsafe.Pointer, size C.int64_t) C.int64_t {
	return C.int64_t(saveState(plugin.Default(), uintptr(id), bytesAt(buf, int(size))))
}

//export GoLoadState
func GoLoadState(id C.uintptr_t, data unsafe.Pointer, size C.int64_t) {
	loadState(plugin.Default(), uintptr(id), bytesAt(data, int(size)))
}
