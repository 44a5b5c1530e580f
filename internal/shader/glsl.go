package shader

// The GLSL module library. Every composed program is the concatenation
// of the header, the uniform declarations and a fixed sequence of these
// sources. Bodies reference the dimension only through the DIM macro so
// the same source text serves every dimension of a family; loops over
// DIM unroll at GLSL compile time, keeping dimension branching out of
// the hot path.

// Caps baked into the header. Runtime knobs are clamped against these.
const (
	MaxStepCap  = 512
	MaxIterCap  = 256
	PaletteSize = 8
)

// VertexSource pairs with every composed fragment program; the viewer
// draws one clipped fullscreen triangle.
const VertexSource = `#version 460 core
in vec2 vert;
void main() {
	gl_Position = vec4(vert, 0.0, 1.0);
}
`

const headerFmt = `#version 460 core
#define DIM %d
#define STEP_CAP %d
#define ITER_CAP %d
#define PALETTE_SIZE %d
out vec4 fragColor;
`

// sharedUniforms is the block every variant declares, in upload order.
func sharedUniforms(dim int) []UniformSpec {
	return []UniformSpec{
		{Name: "uResolution", Type: Vec2, Arity: 1},
		{Name: "uCamPos", Type: Vec3, Arity: 1},
		{Name: "uCamRight", Type: Vec3, Arity: 1},
		{Name: "uCamUp", Type: Vec3, Arity: 1},
		{Name: "uCamFwd", Type: Vec3, Arity: 1},
		{Name: "uFovTan", Type: Float, Arity: 1},
		{Name: "uOrigin", Type: Float, Arity: dim},
		{Name: "uBasisX", Type: Float, Arity: dim},
		{Name: "uBasisY", Type: Float, Arity: dim},
		{Name: "uBasisZ", Type: Float, Arity: dim},
		{Name: "uIterations", Type: Int, Arity: 1},
		{Name: "uBailout2", Type: Float, Arity: 1},
		{Name: "uSafety", Type: Float, Arity: 1},
		{Name: "uEpsBase", Type: Float, Arity: 1},
		{Name: "uEpsScale", Type: Float, Arity: 1},
		{Name: "uMaxDist", Type: Float, Arity: 1},
		{Name: "uMaxSteps", Type: Int, Arity: 1},
		{Name: "uBackground", Type: Vec3, Arity: 1},
		{Name: "uTime", Type: Float, Arity: 1},
	}
}

// sliceSource maps a viewport ray-space point onto the N-D slice:
// origin + x·basisX + y·basisY + z·basisZ. Slice-parameter offsets for
// dimensions beyond the third are already folded into uOrigin on the CPU.
const sliceSource = `float[DIM] ndPoint(vec3 p) {
	float q[DIM];
	for (int k = 0; k < DIM; ++k) {
		q[k] = uOrigin[k] + p.x * uBasisX[k] + p.y * uBasisY[k] + p.z * uBasisZ[k];
	}
	return q;
}
`

// fieldSource adapts the family de() to viewport space. Result channels:
// x = distance (or safety-scaled field proxy), y = orbit trap, z = smooth
// escape count.
const fieldSource = `vec3 field(vec3 p) {
	return de(ndPoint(p));
}
`

const normalSource = `vec3 fieldNormal(vec3 p, float h) {
	vec2 e = vec2(h, 0.0);
	return normalize(vec3(
		field(p + e.xyy).x - field(p - e.xyy).x,
		field(p + e.yxy).x - field(p - e.yxy).x,
		field(p + e.yyx).x - field(p - e.yyx).x));
}
`

const aoSource = `float ambientOcclusion(vec3 p, vec3 n) {
	float occ = 0.0;
	float w = 1.0;
	for (int i = 1; i <= 5; ++i) {
		float h = 0.02 * float(i);
		occ += w * (h - field(p + n * h).x);
		w *= 0.6;
	}
	return clamp(1.0 - 2.0 * occ, 0.0, 1.0);
}
`

const lightingSource = `vec3 applyLighting(vec3 base, vec3 p, vec3 n, vec3 rd) {
	vec3 l = normalize(uLightDir);
	float diff = max(dot(n, l), 0.0);
	vec3 h = normalize(l - rd);
	float spec = pow(max(dot(n, h), 0.0), 32.0);
	return base * (uAmbient + (1.0 - uAmbient) * diff) + vec3(0.25) * spec * diff;
}
`

const shadowSource = `float softShadow(vec3 p, vec3 n) {
	vec3 l = normalize(uLightDir);
	float t = 10.0 * uEpsBase;
	float res = 1.0;
	for (int i = 0; i < 64; ++i) {
		float d = field(p + n * uEpsBase * 2.0 + l * t).x;
		if (d < uEpsBase) return 0.2;
		res = min(res, uShadowSoft * d / t);
		t += clamp(d, uEpsBase, 0.5);
		if (t > uMaxDist) break;
	}
	return clamp(res, 0.2, 1.0);
}
`

const paletteLookupSource = `vec3 paletteLookup(float x) {
	float f = clamp(x, 0.0, 1.0) * float(PALETTE_SIZE - 1);
	int i = int(floor(f));
	int j = min(i + 1, PALETTE_SIZE - 1);
	return mix(uPalette[i], uPalette[j], fract(f));
}
`

const colorPaletteSource = paletteLookupSource + `vec3 baseColor(float trap, float escape, float t, vec3 n) {
	return paletteLookup(fract(trap * uTrapScale + uTrapShift));
}
`

const colorEscapeSource = paletteLookupSource + `vec3 baseColor(float trap, float escape, float t, vec3 n) {
	return paletteLookup(clamp(escape * uEscapeScale / float(uIterations), 0.0, 1.0));
}
`

const colorNormalSource = `vec3 baseColor(float trap, float escape, float t, vec3 n) {
	return n * 0.5 + 0.5;
}
`

// Solid main: sphere-trace to the first hit, then shade. The surface
// threshold grows linearly with traveled distance.
const mainSolidHead = `void main() {
	vec2 uv = (2.0 * gl_FragCoord.xy - uResolution) / uResolution.y;
	vec3 ro = uCamPos;
	vec3 rd = normalize(uCamFwd + uFovTan * (uv.x * uCamRight + uv.y * uCamUp));
	float t = 0.0;
	float trap = 0.0;
	float escape = 0.0;
	float eps = uEpsBase;
	bool hit = false;
	for (int i = 0; i < STEP_CAP; ++i) {
		if (i >= uMaxSteps) break;
		vec3 s = field(ro + t * rd);
		eps = uEpsBase + uEpsScale * t;
		if (s.x < eps) { trap = s.y; escape = s.z; hit = true; break; }
		t += s.x * uSafety;
		if (t > uMaxDist) break;
	}
	vec3 col = uBackground;
	if (hit) {
		vec3 pos = ro + t * rd;
`

const (
	mainLineNormal   = "\t\tvec3 n = fieldNormal(pos, eps);\n"
	mainLineNoNormal = "\t\tvec3 n = vec3(0.0);\n"
	mainLineColor    = "\t\tcol = baseColor(trap, escape, t, n);\n"
	mainLineLighting = "\t\tcol = applyLighting(col, pos, n, rd);\n"
	mainLineAO       = "\t\tcol *= ambientOcclusion(pos, n);\n"
	mainLineShadow   = "\t\tcol *= softShadow(pos, n);\n"
)

const mainSolidTail = `	}
	fragColor = vec4(pow(col, vec3(0.4545)), 1.0);
}
`

// Volumetric main: translucent accumulation for field families; samples
// inside the threshold deposit density instead of terminating the ray.
const mainVolumetricSource = `void main() {
	vec2 uv = (2.0 * gl_FragCoord.xy - uResolution) / uResolution.y;
	vec3 ro = uCamPos;
	vec3 rd = normalize(uCamFwd + uFovTan * (uv.x * uCamRight + uv.y * uCamUp));
	vec3 acc = vec3(0.0);
	float alpha = 0.0;
	float t = 0.0;
	for (int i = 0; i < STEP_CAP; ++i) {
		if (i >= uMaxSteps || t > uMaxDist) break;
		vec3 s = field(ro + t * rd);
		float eps = uEpsBase + uEpsScale * t;
		if (s.x < eps) {
			float a = uDensity * (1.0 - alpha);
			acc += baseColor(s.y, s.z, t, vec3(0.0)) * a;
			alpha += a;
			if (alpha > 0.98) break;
			t += max(abs(s.x), eps) * uSafety + eps;
		} else {
			t += s.x * uSafety;
		}
	}
	vec3 col = acc + uBackground * (1.0 - alpha);
	fragColor = vec4(pow(col, vec3(0.4545)), 1.0);
}
`

var (
	lightingUniforms = []UniformSpec{
		{Name: "uLightDir", Type: Vec3, Arity: 1},
		{Name: "uAmbient", Type: Float, Arity: 1},
	}
	shadowUniforms = []UniformSpec{
		{Name: "uShadowSoft", Type: Float, Arity: 1},
	}
	paletteUniforms = []UniformSpec{
		{Name: "uPalette", Type: Vec3, Arity: PaletteSize},
		{Name: "uTrapScale", Type: Float, Arity: 1},
		{Name: "uTrapShift", Type: Float, Arity: 1},
	}
	escapeUniforms = []UniformSpec{
		{Name: "uPalette", Type: Vec3, Arity: PaletteSize},
		{Name: "uEscapeScale", Type: Float, Arity: 1},
	}
	volumetricUniforms = []UniformSpec{
		{Name: "uDensity", Type: Float, Arity: 1},
	}
)
