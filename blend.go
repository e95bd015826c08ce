package aspen

import "github.com/hajimehoshi/ebiten/v2"

// BlendOp is a blend equation. Values are the OpenGL enum codes so backends
// can pass them straight through.
type BlendOp uint32

const (
	BlendOpAdd             BlendOp = 0x8006
	BlendOpSubtract        BlendOp = 0x800A
	BlendOpReverseSubtract BlendOp = 0x800B
	BlendOpMin             BlendOp = 0x8007
	BlendOpMax             BlendOp = 0x8008
)

// BlendFactor is a source or destination blend factor, using OpenGL codes.
type BlendFactor uint32

const (
	BlendZero             BlendFactor = 0
	BlendOne              BlendFactor = 1
	BlendSrcColor         BlendFactor = 0x0300
	BlendOneMinusSrcColor BlendFactor = 0x0301
	BlendSrcAlpha         BlendFactor = 0x0302
	BlendOneMinusSrcAlpha BlendFactor = 0x0303
	BlendDstAlpha         BlendFactor = 0x0304
	BlendOneMinusDstAlpha BlendFactor = 0x0305
	BlendDstColor         BlendFactor = 0x0306
	BlendOneMinusDstColor BlendFactor = 0x0307
)

// Blend describes how a renderable's output combines with the target.
// It is a plain value: two Blends are equal when all three fields match.
type Blend struct {
	Op  BlendOp
	Src BlendFactor
	Dst BlendFactor
}

// NewBlend returns a Blend with the given equation and factors.
func NewBlend(op BlendOp, src, dst BlendFactor) Blend {
	return Blend{Op: op, Src: src, Dst: dst}
}

// DefaultBlend is standard straight-alpha source-over compositing and the
// initial blend of every renderable.
var DefaultBlend = Blend{Op: BlendOpAdd, Src: BlendSrcAlpha, Dst: BlendOneMinusSrcAlpha}

// Preset blends.
var (
	BlendNormal   = DefaultBlend
	BlendAdditive = Blend{Op: BlendOpAdd, Src: BlendSrcAlpha, Dst: BlendOne}
	BlendMultiply = Blend{Op: BlendOpAdd, Src: BlendDstColor, Dst: BlendOneMinusSrcAlpha}
	BlendScreen   = Blend{Op: BlendOpAdd, Src: BlendOne, Dst: BlendOneMinusSrcColor}
	BlendSubtract = Blend{Op: BlendOpReverseSubtract, Src: BlendSrcAlpha, Dst: BlendOne}
)

// EbitenBlend returns the ebiten.Blend equivalent. ok is false when ebiten
// has no matching operation or factor; the returned value is then
// ebiten.BlendSourceOver.
func (b Blend) EbitenBlend() (blend ebiten.Blend, ok bool) {
	op, ok1 := b.Op.ebiten()
	src, ok2 := b.Src.ebiten()
	dst, ok3 := b.Dst.ebiten()
	if !ok1 || !ok2 || !ok3 {
		return ebiten.BlendSourceOver, false
	}
	return ebiten.Blend{
		BlendFactorSourceRGB:        src,
		BlendFactorSourceAlpha:      src,
		BlendFactorDestinationRGB:   dst,
		BlendFactorDestinationAlpha: dst,
		BlendOperationRGB:           op,
		BlendOperationAlpha:         op,
	}, true
}

func (o BlendOp) ebiten() (ebiten.BlendOperation, bool) {
	switch o {
	case BlendOpAdd:
		return ebiten.BlendOperationAdd, true
	case BlendOpSubtract:
		return ebiten.BlendOperationSubtract, true
	case BlendOpReverseSubtract:
		return ebiten.BlendOperationReverseSubtract, true
	case BlendOpMin:
		return ebiten.BlendOperationMin, true
	case BlendOpMax:
		return ebiten.BlendOperationMax, true
	default:
		return ebiten.BlendOperationAdd, false
	}
}

func (f BlendFactor) ebiten() (ebiten.BlendFactor, bool) {
	switch f {
	case BlendZero:
		return ebiten.BlendFactorZero, true
	case BlendOne:
		return ebiten.BlendFactorOne, true
	case BlendSrcColor:
		return ebiten.BlendFactorSourceColor, true
	case BlendOneMinusSrcColor:
		return ebiten.BlendFactorOneMinusSourceColor, true
	case BlendSrcAlpha:
		return ebiten.BlendFactorSourceAlpha, true
	case BlendOneMinusSrcAlpha:
		return ebiten.BlendFactorOneMinusSourceAlpha, true
	case BlendDstAlpha:
		return ebiten.BlendFactorDestinationAlpha, true
	case BlendOneMinusDstAlpha:
		return ebiten.BlendFactorOneMinusDestinationAlpha, true
	case BlendDstColor:
		return ebiten.BlendFactorDestinationColor, true
	case BlendOneMinusDstColor:
		return ebiten.BlendFactorOneMinusDestinationColor, true
	default:
		return ebiten.BlendFactorDefault, false
	}
}
