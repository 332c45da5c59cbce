package sceneio

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/bethropolis/prism/internal/scene"
)

// FormatVersion is written to every scene file.
const FormatVersion = 1

type sceneDoc struct {
	Version   int           `yaml:"version"`
	Layers    []layerDoc    `yaml:"layers,omitempty"`
	AppStates []appStateDoc `yaml:"app_states,omitempty"`
	Filters   []filterDoc   `yaml:"filters,omitempty"`
	Root      nodeDoc       `yaml:"root"`
}

type layerDoc struct {
	Name    string `yaml:"name"`
	Visible bool   `yaml:"visible"`
}

type appStateDoc struct {
	Name    string `yaml:"name"`
	Kind    string `yaml:"kind,omitempty"`
	Enabled bool   `yaml:"enabled"`
}

type filterDoc appStateDoc

type nodeDoc struct {
	Name        string     `yaml:"name"`
	Kind        string     `yaml:"kind"`
	Translation [3]float32 `yaml:"translation,flow"`
	Rotation    [4]float32 `yaml:"rotation,flow"` // w, x, y, z
	Scale       [3]float32 `yaml:"scale,flow"`
	Visible     bool       `yaml:"visible"`
	Material    string     `yaml:"material,omitempty"`
	Layer       string     `yaml:"layer,omitempty"`

	Light      *lightDoc      `yaml:"light,omitempty"`
	Emitter    *emitterDoc    `yaml:"emitter,omitempty"`
	Audio      *audioDoc      `yaml:"audio,omitempty"`
	RigidBody  *rigidBodyDoc  `yaml:"rigid_body,omitempty"`
	Animations []animationDoc `yaml:"animations,omitempty"`

	Children []nodeDoc `yaml:"children,omitempty"`
}

type lightDoc struct {
	Type      string     `yaml:"type"`
	Color     [3]float32 `yaml:"color,flow"`
	Intensity float32    `yaml:"intensity"`
	Radius    float32    `yaml:"radius,omitempty"`
}

type emitterDoc struct {
	Shape   string  `yaml:"shape"`
	Rate    float32 `yaml:"rate"`
	Life    float32 `yaml:"life"`
	Enabled bool    `yaml:"enabled"`
}

type audioDoc struct {
	Path       string  `yaml:"path,omitempty"`
	Volume     float32 `yaml:"volume"`
	Looping    bool    `yaml:"looping,omitempty"`
	Positional bool    `yaml:"positional,omitempty"`
}

type rigidBodyDoc struct {
	Mass    float32 `yaml:"mass"`
	Enabled bool    `yaml:"enabled"`
}

type animationDoc struct {
	Name   string `yaml:"name"`
	Length string `yaml:"length"`
}

func toDoc(s *scene.Scene) sceneDoc {
	doc := sceneDoc{Version: FormatVersion, Root: nodeToDoc(s.Root)}
	for _, l := range s.Layers {
		doc.Layers = append(doc.Layers, layerDoc{Name: l.Name, Visible: l.Visible})
	}
	for _, a := range s.AppStates {
		doc.AppStates = append(doc.AppStates, appStateDoc{Name: a.Name, Kind: a.Kind, Enabled: a.Enabled})
	}
	for _, f := range s.Filters {
		doc.Filters = append(doc.Filters, filterDoc{Name: f.Name, Kind: f.Kind, Enabled: f.Enabled})
	}
	return doc
}

func nodeToDoc(n *scene.Node) nodeDoc {
	t := n.Transform
	d := nodeDoc{
		Name:        n.Name,
		Kind:        n.Kind.String(),
		Translation: t.Translation,
		Rotation:    [4]float32{t.Rotation.W, t.Rotation.V[0], t.Rotation.V[1], t.Rotation.V[2]},
		Scale:       t.Scale,
		Visible:     n.Visible,
		Material:    n.Material,
	}
	if n.Layer != nil {
		d.Layer = n.Layer.Name
	}
	if l := n.Light; l != nil {
		d.Light = &lightDoc{Type: string(l.Type), Color: l.Color, Intensity: l.Intensity, Radius: l.Radius}
	}
	if e := n.Emitter; e != nil {
		d.Emitter = &emitterDoc{Shape: e.Shape, Rate: e.Rate, Life: e.Life, Enabled: e.Enabled}
	}
	if a := n.Audio; a != nil {
		d.Audio = &audioDoc{Path: a.Path, Volume: a.Volume, Looping: a.Looping, Positional: a.Positional}
	}
	if rb := n.RigidBody; rb != nil {
		d.RigidBody = &rigidBodyDoc{Mass: rb.Mass, Enabled: rb.Enabled}
	}
	if n.Anim != nil {
		for _, a := range n.Anim.Animations() {
			d.Animations = append(d.Animations, animationDoc{Name: a.Name, Length: a.Length.String()})
		}
	}
	for _, c := range n.Children() {
		d.Children = append(d.Children, nodeToDoc(c))
	}
	return d
}

func fromDoc(doc sceneDoc) (*scene.Scene, error) {
	s := &scene.Scene{}
	for _, l := range doc.Layers {
		s.Layers = append(s.Layers, &scene.Layer{Name: l.Name, Visible: l.Visible})
	}
	for _, a := range doc.AppStates {
		s.AppStates = append(s.AppStates, &scene.AppState{Name: a.Name, Kind: a.Kind, Enabled: a.Enabled})
	}
	for _, f := range doc.Filters {
		s.Filters = append(s.Filters, &scene.Filter{Name: f.Name, Kind: f.Kind, Enabled: f.Enabled})
	}
	root, err := nodeFromDoc(s, doc.Root, "")
	if err != nil {
		return nil, err
	}
	s.Root = root
	return s, nil
}

func nodeFromDoc(s *scene.Scene, d nodeDoc, parentPath string) (*scene.Node, error) {
	path := parentPath + "/" + d.Name
	kind, ok := scene.ParseKind(d.Kind)
	if !ok {
		return nil, &FormatError{Path: path, Msg: "unknown kind " + d.Kind}
	}
	n := &scene.Node{
		Name: d.Name,
		Kind: kind,
		Transform: scene.Transform{
			Translation: mgl32.Vec3(d.Translation),
			Rotation:    mgl32.Quat{W: d.Rotation[0], V: mgl32.Vec3{d.Rotation[1], d.Rotation[2], d.Rotation[3]}},
			Scale:       mgl32.Vec3(d.Scale),
		},
		Visible:  d.Visible,
		Material: d.Material,
	}
	if n.Transform.Rotation.Len() == 0 {
		n.Transform.Rotation = mgl32.QuatIdent()
	}
	if d.Layer != "" {
		if n.Layer = s.Layer(d.Layer); n.Layer == nil {
			return nil, &FormatError{Path: path, Msg: "unknown layer " + d.Layer}
		}
	}
	if l := d.Light; l != nil {
		n.Light = &scene.Light{Type: scene.LightType(l.Type), Color: mgl32.Vec3(l.Color), Intensity: l.Intensity, Radius: l.Radius}
	}
	if e := d.Emitter; e != nil {
		n.Emitter = &scene.Emitter{Shape: e.Shape, Rate: e.Rate, Life: e.Life, Enabled: e.Enabled}
	}
	if a := d.Audio; a != nil {
		n.Audio = &scene.Audio{Path: a.Path, Volume: a.Volume, Looping: a.Looping, Positional: a.Positional}
	}
	if rb := d.RigidBody; rb != nil {
		n.RigidBody = &scene.RigidBody{Mass: rb.Mass, Enabled: rb.Enabled}
	}
	if len(d.Animations) > 0 {
		n.Anim = &scene.AnimControl{}
		for _, a := range d.Animations {
			length, err := time.ParseDuration(a.Length)
			if err != nil {
				return nil, &FormatError{Path: path, Msg: "animation " + a.Name, Err: err}
			}
			n.Anim.AddAnim(&scene.Animation{Name: a.Name, Length: length})
		}
	}
	for _, cd := range d.Children {
		c, err := nodeFromDoc(s, cd, path)
		if err != nil {
			return nil, err
		}
		if err := n.Attach(c); err != nil {
			return nil, &FormatError{Path: path, Msg: "attach " + cd.Name, Err: err}
		}
	}
	return n, nil
}
