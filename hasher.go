package chainmap

import (
	"math/bits"
	"unsafe"
)

// ref: goarch.PtrSize
const ptrSize = 4 << (^uintptr(0) >> 63)

// hashFunc is the erased form of a key hash function. Callers supply the
// typed form func(key K, seed uintptr) uintptr; Init wraps it.
type hashFunc func(unsafe.Pointer, uintptr) uintptr

// defaultHasher returns the hash function used when no custom hasher is
// configured. Fixed-size integer keys hash to themselves; their natural
// distribution is sufficient for the masked bucket index. Everything else
// falls back to the runtime's built-in hasher for the key type.
func defaultHasher[K comparable]() hashFunc {
	switch any(*new(K)).(type) {
	case uint, int, uintptr:
		return func(value unsafe.Pointer, _ uintptr) uintptr {
			return *(*uintptr)(value)
		}

	case uint64, int64:
		if bits.UintSize == 32 {
			return func(value unsafe.Pointer, _ uintptr) uintptr {
				v := *(*uint64)(value)
				return uintptr(v) ^ uintptr(v>>32)
			}
		}
		return func(value unsafe.Pointer, _ uintptr) uintptr {
			return uintptr(*(*uint64)(value))
		}

	case uint32, int32:
		return func(value unsafe.Pointer, _ uintptr) uintptr {
			return uintptr(*(*uint32)(value))
		}

	case uint16, int16:
		return func(value unsafe.Pointer, _ uintptr) uintptr {
			return uintptr(*(*uint16)(value))
		}

	case uint8, int8:
		return func(value unsafe.Pointer, _ uintptr) uintptr {
			return uintptr(*(*uint8)(value))
		}

	default:
		return builtInHasher[K]()
	}
}

// builtInHasher obtains Go's built-in hash function for K through the
// runtime's map type descriptor.
//
// Notes:
//   - This implementation relies on Go's internal type representation
//   - It should be verified for compatibility with each Go version upgrade
func builtInHasher[K comparable]() hashFunc {
	var m map[K]struct{}
	return iTypeOf(m).MapType().Hasher
}

type iTFlag uint8
type iKind uint8
type iNameOff int32

// iTypeOff is the offset to a type from moduledata.types. See resolveTypeOff in runtime.
type iTypeOff int32

// iType mirrors the runtime type descriptor. Field order and sizes must
// match the runtime exactly; only the fields read here are commented.
type iType struct {
	Size_       uintptr
	PtrBytes    uintptr
	Hash        uint32
	TFlag       iTFlag
	Align_      uint8
	FieldAlign_ uint8
	Kind_       iKind
	// function for comparing objects of this type
	// (ptr to object A, ptr to object B) -> ==?
	Equal func(unsafe.Pointer, unsafe.Pointer) bool
	// GCData stores the GC type data for the garbage collector.
	GCData    *byte
	Str       iNameOff
	PtrToThis iTypeOff
}

func (t *iType) MapType() *iMapType {
	return (*iMapType)(unsafe.Pointer(t))
}

type iMapType struct {
	iType
	Key   *iType
	Elem  *iType
	Group *iType
	// function for hashing keys (ptr to key, seed) -> hash
	Hasher func(unsafe.Pointer, uintptr) uintptr
}

func iTypeOf(a any) *iType {
	eface := *(*iEmptyInterface)(unsafe.Pointer(&a))
	// Types are either static (for compiler-created types) or
	// heap-allocated but always reachable (for reflection-created
	// types, held in the central map). So there is no need to
	// escape types. noescape here help avoid unnecessary escape
	// of v.
	return (*iType)(noescape(unsafe.Pointer(eface.Type)))
}

type iEmptyInterface struct {
	Type *iType
	Data unsafe.Pointer
}

// noescape hides a pointer from escape analysis.  noescape is
// the identity function but escape analysis doesn't think the
// output depends on the input.  noescape is inlined and currently
// compiles down to zero instructions.
// USE CAREFULLY!
//
// nolint:all
//
//go:nosplit
//goland:noinspection ALL
func noescape(p unsafe.Pointer) unsafe.Pointer {
	x := uintptr(p)
	return unsafe.Pointer(x ^ 0)
}
