package glbackend

const spriteVertex = `#version 410 core
layout (location = 0) in vec4 vertex;

layout (std140) uniform ubo {
    mat4 projection;
};

uniform mat4 model;

out vec2 uv;

void main() {
    uv = vertex.zw;
    gl_Position = projection * model * vec4(vertex.xy, 0.0, 1.0);
}
`

const spriteFragment = `#version 410 core
in vec2 uv;
out vec4 result;

uniform sampler2D image;
uniform vec4 color;
uniform vec4 tone;
uniform vec4 flash;
uniform float hue;
uniform float opacity;

vec3 rotateHue(vec3 c, float deg) {
    float rad = radians(deg);
    float s = sin(rad) * 0.57735027;
    float cs = cos(rad);
    float w = (1.0 - cs) / 3.0;
    return vec3(
        c.r * (cs + w) + c.g * (w - s) + c.b * (w + s),
        c.r * (w + s) + c.g * (cs + w) + c.b * (w - s),
        c.r * (w - s) + c.g * (w + s) + c.b * (cs + w)
    );
}

void main() {
    vec4 c = texture(image, uv);
    if (c.a <= 0.0) {
        discard;
    }
    vec3 rgb = c.rgb;
    if (hue != 0.0) {
        rgb = rotateHue(rgb, hue);
    }
    rgb = clamp(rgb + tone.rgb, 0.0, 1.0);
    float gray = dot(rgb, vec3(0.299, 0.587, 0.114));
    rgb = mix(rgb, vec3(gray), tone.a);
    rgb = mix(rgb, color.rgb, color.a);
    rgb = mix(rgb, flash.rgb, flash.a);
    result = vec4(rgb, c.a * opacity);
}
`
