// Package gltfload converts glTF 2.0 and GLB documents into scene graph
// trees with materials, skins and animation clips.
package gltfload

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"path"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"

	"github.com/Faultbox/gldemos/internal/engine/animation"
	"github.com/Faultbox/gldemos/internal/engine/scenegraph"
	"github.com/Faultbox/gldemos/internal/logger"
	"github.com/Faultbox/gldemos/pkg/math"
)

const dracoExtension = "KHR_draco_mesh_compression"

// ErrUnsupported is returned for documents using features the loader cannot decode.
var ErrUnsupported = errors.New("unsupported glTF feature")

// Options control how a document is converted.
type Options struct {
	// Name is given to the returned root node.
	Name string
	// FS resolves external buffers and images, relative to the document.
	FS fs.FS
}

// Result is a converted document.
type Result struct {
	Root       *scenegraph.Node
	Nodes      []*scenegraph.Node // indexed like the document's nodes
	Skins      []*scenegraph.Skin
	Animations []*animation.Clip
}

// Animation returns the clip with the given name, or nil.
func (r *Result) Animation(name string) *animation.Clip {
	for _, c := range r.Animations {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// LoadFile reads and converts name from fsys. External references resolve
// relative to the file's directory.
func LoadFile(fsys fs.FS, name string) (*Result, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	sub, err := fs.Sub(fsys, path.Dir(name))
	if err != nil {
		return nil, err
	}
	res, err := Load(data, Options{Name: path.Base(name), FS: sub})
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", name, err)
	}
	return res, nil
}

// Load decodes a glTF or GLB document and converts it.
func Load(data []byte, opts Options) (*Result, error) {
	var dec *gltf.Decoder
	if opts.FS != nil {
		dec = gltf.NewDecoderFS(bytes.NewReader(data), opts.FS)
	} else {
		dec = gltf.NewDecoder(bytes.NewReader(data))
	}

	doc := new(gltf.Document)
	if err := dec.Decode(doc); err != nil {
		return nil, fmt.Errorf("decoding glTF: %w", err)
	}
	return FromDocument(doc, opts)
}

// converter holds per-document state while building the tree.
type converter struct {
	doc       *gltf.Document
	opts      Options
	log       *zap.Logger
	materials map[int]*scenegraph.Material
	textures  map[int]*scenegraph.TextureSource
	parts     map[int][]*scenegraph.Node // per-primitive children of multi-primitive meshes
}

// FromDocument converts an already decoded document.
func FromDocument(doc *gltf.Document, opts Options) (*Result, error) {
	for _, ext := range doc.ExtensionsRequired {
		if ext == dracoExtension {
			return nil, fmt.Errorf("%w: %s", ErrUnsupported, ext)
		}
	}

	c := &converter{
		doc:       doc,
		opts:      opts,
		log:       logger.Named("gltf"),
		materials: make(map[int]*scenegraph.Material),
		textures:  make(map[int]*scenegraph.TextureSource),
		parts:     make(map[int][]*scenegraph.Node),
	}

	name := opts.Name
	if name == "" {
		name = "scene"
	}
	res := &Result{
		Root:  scenegraph.NewNode(name),
		Nodes: make([]*scenegraph.Node, len(doc.Nodes)),
	}

	for i, n := range doc.Nodes {
		node, err := c.node(i, n)
		if err != nil {
			return nil, err
		}
		res.Nodes[i] = node
	}

	for i, n := range doc.Nodes {
		for _, ci := range n.Children {
			if ci < 0 || ci >= len(res.Nodes) {
				return nil, fmt.Errorf("node %d: child index %d out of range", i, ci)
			}
			res.Nodes[i].Add(res.Nodes[ci])
		}
	}

	for _, ri := range c.rootNodes() {
		res.Root.Add(res.Nodes[ri])
	}

	for i, s := range doc.Skins {
		skin, err := c.skin(s, res.Nodes)
		if err != nil {
			return nil, fmt.Errorf("skin %d: %w", i, err)
		}
		res.Skins = append(res.Skins, skin)
	}
	for i, n := range doc.Nodes {
		if n.Skin == nil {
			continue
		}
		if *n.Skin >= len(res.Skins) {
			return nil, fmt.Errorf("node %d: skin index %d out of range", i, *n.Skin)
		}
		skin := res.Skins[*n.Skin]
		res.Nodes[i].Skin = skin
		for _, part := range c.parts[i] {
			part.Skin = skin
		}
	}

	for i, a := range doc.Animations {
		clip, err := c.animation(i, a, res.Nodes)
		if err != nil {
			return nil, fmt.Errorf("animation %d: %w", i, err)
		}
		res.Animations = append(res.Animations, clip)
	}

	c.log.Debug("document converted",
		zap.String("name", name),
		zap.Int("nodes", len(res.Nodes)),
		zap.Int("meshes", len(doc.Meshes)),
		zap.Int("skins", len(res.Skins)),
		zap.Int("animations", len(res.Animations)))

	return res, nil
}

// rootNodes returns the nodes of the default scene, or every parentless
// node when the document has no scenes.
func (c *converter) rootNodes() []int {
	if len(c.doc.Scenes) > 0 {
		si := 0
		if c.doc.Scene != nil && *c.doc.Scene < len(c.doc.Scenes) {
			si = *c.doc.Scene
		}
		return c.doc.Scenes[si].Nodes
	}

	isChild := make([]bool, len(c.doc.Nodes))
	for _, n := range c.doc.Nodes {
		for _, ci := range n.Children {
			isChild[ci] = true
		}
	}
	var roots []int
	for i := range c.doc.Nodes {
		if !isChild[i] {
			roots = append(roots, i)
		}
	}
	return roots
}

func (c *converter) node(index int, n *gltf.Node) (*scenegraph.Node, error) {
	name := n.Name
	if name == "" {
		name = fmt.Sprintf("node_%d", index)
	}
	node := scenegraph.NewNode(name)

	if m := n.MatrixOrDefault(); m != gltf.DefaultMatrix {
		var mat math.Mat4
		for k := range m {
			mat[k] = float32(m[k])
		}
		node.Position, node.Rotation, node.Scale = mat.Decompose()
	} else {
		t := n.TranslationOrDefault()
		r := n.RotationOrDefault()
		s := n.ScaleOrDefault()
		node.Position = math.Vec3{X: float32(t[0]), Y: float32(t[1]), Z: float32(t[2])}
		node.Rotation = math.Quat{X: float32(r[0]), Y: float32(r[1]), Z: float32(r[2]), W: float32(r[3])}
		node.Scale = math.Vec3{X: float32(s[0]), Y: float32(s[1]), Z: float32(s[2])}
	}

	if n.Mesh == nil {
		return node, nil
	}
	if *n.Mesh < 0 || *n.Mesh >= len(c.doc.Meshes) {
		return nil, fmt.Errorf("node %q: mesh index %d out of range", name, *n.Mesh)
	}
	mesh := c.doc.Meshes[*n.Mesh]

	for pi, p := range mesh.Primitives {
		geom, err := c.primitive(p)
		if err != nil {
			return nil, fmt.Errorf("mesh %q primitive %d: %w", mesh.Name, pi, err)
		}
		if geom == nil {
			continue
		}
		mat, err := c.material(p.Material)
		if err != nil {
			return nil, fmt.Errorf("mesh %q primitive %d: %w", mesh.Name, pi, err)
		}

		// A single primitive lives on the node itself; several become children
		if len(mesh.Primitives) == 1 {
			node.Geometry = geom
			node.Material = mat
			continue
		}
		part := scenegraph.NewMesh(fmt.Sprintf("%s_%d", name, pi), geom, mat)
		node.Add(part)
		c.parts[index] = append(c.parts[index], part)
	}
	return node, nil
}

// primitive reads vertex attributes and indices. Point and strip modes
// return nil geometry.
func (c *converter) primitive(p *gltf.Primitive) (*scenegraph.Geometry, error) {
	if _, ok := p.Extensions[dracoExtension]; ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, dracoExtension)
	}

	geom := &scenegraph.Geometry{}
	switch p.Mode {
	case gltf.PrimitiveTriangles:
		geom.Mode = scenegraph.Triangles
	case gltf.PrimitiveLines:
		geom.Mode = scenegraph.Lines
	default:
		c.log.Warn("skipping primitive", zap.Int("mode", int(p.Mode)))
		return nil, nil
	}

	idx, ok := p.Attributes[gltf.POSITION]
	if !ok {
		return nil, errors.New("primitive has no POSITION attribute")
	}
	acr, err := c.accessor(idx)
	if err != nil {
		return nil, err
	}
	pos, err := modeler.ReadPosition(c.doc, acr, nil)
	if err != nil {
		return nil, fmt.Errorf("reading positions: %w", err)
	}
	geom.Positions = flatten3(pos)

	if idx, ok := p.Attributes[gltf.NORMAL]; ok {
		acr, err := c.accessor(idx)
		if err != nil {
			return nil, err
		}
		nrm, err := modeler.ReadNormal(c.doc, acr, nil)
		if err != nil {
			return nil, fmt.Errorf("reading normals: %w", err)
		}
		geom.Normals = flatten3(nrm)
	}

	if idx, ok := p.Attributes[gltf.TEXCOORD_0]; ok {
		acr, err := c.accessor(idx)
		if err != nil {
			return nil, err
		}
		uv, err := modeler.ReadTextureCoord(c.doc, acr, nil)
		if err != nil {
			return nil, fmt.Errorf("reading texture coordinates: %w", err)
		}
		geom.UVs = make([]float32, 0, len(uv)*2)
		for _, v := range uv {
			geom.UVs = append(geom.UVs, v[0], v[1])
		}
	}

	if idx, ok := p.Attributes[gltf.JOINTS_0]; ok {
		acr, err := c.accessor(idx)
		if err != nil {
			return nil, err
		}
		joints, err := modeler.ReadJoints(c.doc, acr, nil)
		if err != nil {
			return nil, fmt.Errorf("reading joints: %w", err)
		}
		geom.Joints = make([]uint16, 0, len(joints)*4)
		for _, j := range joints {
			geom.Joints = append(geom.Joints, j[0], j[1], j[2], j[3])
		}
	}

	if idx, ok := p.Attributes[gltf.WEIGHTS_0]; ok {
		acr, err := c.accessor(idx)
		if err != nil {
			return nil, err
		}
		weights, err := modeler.ReadWeights(c.doc, acr, nil)
		if err != nil {
			return nil, fmt.Errorf("reading weights: %w", err)
		}
		geom.Weights = make([]float32, 0, len(weights)*4)
		for _, w := range weights {
			geom.Weights = append(geom.Weights, w[0], w[1], w[2], w[3])
		}
	}

	if p.Indices != nil {
		acr, err := c.accessor(*p.Indices)
		if err != nil {
			return nil, err
		}
		indices, err := modeler.ReadIndices(c.doc, acr, nil)
		if err != nil {
			return nil, fmt.Errorf("reading indices: %w", err)
		}
		geom.Indices = indices
	}

	if err := geom.Validate(); err != nil {
		return nil, err
	}
	return geom, nil
}

func (c *converter) accessor(i int) (*gltf.Accessor, error) {
	if i < 0 || i >= len(c.doc.Accessors) {
		return nil, fmt.Errorf("accessor index %d out of range", i)
	}
	return c.doc.Accessors[i], nil
}

func (c *converter) skin(s *gltf.Skin, nodes []*scenegraph.Node) (*scenegraph.Skin, error) {
	skin := &scenegraph.Skin{Name: s.Name}
	for _, j := range s.Joints {
		if j < 0 || j >= len(nodes) {
			return nil, fmt.Errorf("joint index %d out of range", j)
		}
		skin.Joints = append(skin.Joints, nodes[j])
	}

	if s.InverseBindMatrices == nil {
		for range skin.Joints {
			skin.InverseBind = append(skin.InverseBind, math.Identity())
		}
		return skin, nil
	}

	acr, err := c.accessor(*s.InverseBindMatrices)
	if err != nil {
		return nil, err
	}
	raw, err := modeler.ReadAccessor(c.doc, acr, nil)
	if err != nil {
		return nil, fmt.Errorf("reading inverse bind matrices: %w", err)
	}
	mats, ok := raw.([][4][4]float32)
	if !ok {
		return nil, fmt.Errorf("%w: inverse bind matrices of type %T", ErrUnsupported, raw)
	}
	for _, m := range mats {
		var out math.Mat4
		for col := 0; col < 4; col++ {
			for row := 0; row < 4; row++ {
				out[col*4+row] = m[col][row]
			}
		}
		skin.InverseBind = append(skin.InverseBind, out)
	}
	return skin, nil
}

func flatten3(v [][3]float32) []float32 {
	out := make([]float32, 0, len(v)*3)
	for _, p := range v {
		out = append(out, p[0], p[1], p[2])
	}
	return out
}
