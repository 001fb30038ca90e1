package importer

// Built-in shader pair used when no sources are configured.
const (
	DefaultVertexShader = `#version 410 core
layout(location = 0) in vec4 vPosition;
layout(location = 1) in vec4 uvPosition0;
layout(location = 2) in vec4 nPosition;

uniform mat4 uModel;
uniform mat4 uViewProj;

out vec2 vUV;
out vec3 vNormal;

void main() {
	vUV = uvPosition0.xy;
	vNormal = mat3(uModel) * nPosition.xyz;
	gl_Position = uViewProj * uModel * vec4(vPosition.xyz, 1.0);
}
`

	DefaultFragmentShader = `#version 410 core
in vec2 vUV;
in vec3 vNormal;

uniform sampler2D gDiffuseMap;

out vec4 fragColor;

void main() {
	vec3 n = normalize(vNormal);
	float light = max(dot(n, normalize(vec3(0.3, 1.0, 0.5))), 0.2);
	fragColor = vec4(texture(gDiffuseMap, vUV).rgb * light, 1.0);
}
`
)
