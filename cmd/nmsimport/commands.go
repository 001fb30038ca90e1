package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/Faultbox/nmsimport/internal/config"
	"github.com/Faultbox/nmsimport/internal/scene"
	"github.com/Faultbox/nmsimport/pkg/formats"
)

func cmdScene(a *app, args []string) error {
	fs := flag.NewFlagSet("scene", flag.ContinueOnError)
	depth := fs.Int("depth", 0, "Limit the printed tree to N levels (0 = all)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: nmsimport scene <path> [-depth N]")
	}

	root, err := a.importer.ImportScene(fs.Arg(0))
	if err != nil {
		return err
	}
	printTree(a, root, 0, *depth)

	stats := a.catalog.Stats()
	fmt.Fprintln(a.out)
	fmt.Fprintf(a.out, "Nodes:     %d\n", root.Count())
	fmt.Fprintf(a.out, "Entities:  %d\n", stats.Entities)
	fmt.Fprintf(a.out, "Shaders:   %d (%d configs)\n", stats.Shaders, stats.ShaderConfigs)
	fmt.Fprintf(a.out, "Textures:  %d\n", stats.Textures)
	return nil
}

func printTree(a *app, n *scene.Node, level, maxDepth int) {
	if maxDepth > 0 && level >= maxDepth {
		return
	}
	var kinds []string
	for _, c := range n.Components() {
		if c.Kind() != scene.KindTransform {
			kinds = append(kinds, c.Kind().String())
		}
	}
	fmt.Fprintf(a.out, "%s%s [%s]", strings.Repeat("  ", level), n.Name, n.Type)
	if len(kinds) > 0 {
		fmt.Fprintf(a.out, " %s", strings.Join(kinds, ","))
	}
	if mc, ok := scene.Get[*scene.MeshComponent](n); ok && mc.Mesh != nil && mc.Mesh.Type == scene.MeshDefault {
		fmt.Fprintf(a.out, " mesh=%#x", mc.Mesh.Hash)
		if mc.Mesh.Material != nil {
			fmt.Fprintf(a.out, " material=%s", mc.Mesh.Material.Name)
		}
	}
	fmt.Fprintln(a.out)
	for _, c := range n.Children {
		printTree(a, c, level+1, maxDepth)
	}
}

func cmdGeometry(a *app, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: nmsimport geometry <path>")
	}
	headerPath, payloadPath := formats.GeometryPaths(args[0])
	header, err := a.fs.Open(headerPath)
	if err != nil {
		return err
	}
	payload, err := a.fs.Open(payloadPath)
	if err != nil {
		return err
	}
	g, err := formats.DecodeGeometry(header, payload)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", headerPath, err)
	}
	defer g.Release()

	fmt.Fprintf(a.out, "Geometry:   %s\n", args[0])
	fmt.Fprintf(a.out, "Vertices:   %d\n", g.VertexCount)
	fmt.Fprintf(a.out, "Indices:    %d (%d-bit)\n", g.IndexCount, g.IndexWidth*8)
	fmt.Fprintf(a.out, "Collision:  %d indices, %d hull vertices\n", g.CollisionIndexCount, len(g.HullVertices))
	fmt.Fprintf(a.out, "Skeleton:   %d joints, %d remap entries\n", len(g.Joints), len(g.BoneRemap))
	fmt.Fprintf(a.out, "Parts:      %d\n", len(g.VertexStarts))
	fmt.Fprintf(a.out, "Layout:     %s (stride %d)\n", g.Description, g.VertexStride)
	fmt.Fprintf(a.out, "Small:      %s (stride %d)\n", g.SmallDescription, g.SmallVertexStride)
	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, "Slices:")
	for _, s := range g.Slices() {
		flags := ""
		if s.DoubleBuffered {
			flags = " double-buffered"
		}
		fmt.Fprintf(a.out, "  %-32s %#018x %6d verts %6d indices%s\n",
			s.Name, s.Hash, s.VertexCount, len(s.IndexBytes)/s.IndexWidth, flags)
	}
	return nil
}

func cmdMaterial(a *app, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: nmsimport material <path>")
	}
	s := a.importer.NewSession()
	defer s.Close()

	m, err := s.BuildMaterial(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Material:   %s (%s)\n", m.Name, m.Class)
	fmt.Fprintf(a.out, "Shadows:    %v\n", m.CastShadow)

	flags := make([]string, 0, len(m.Flags))
	for _, f := range m.SortedFlags() {
		flags = append(flags, f.String())
	}
	fmt.Fprintf(a.out, "Flags:      %s\n", strings.Join(flags, ", "))
	if m.Shader != nil {
		fmt.Fprintf(a.out, "Shader:     %#x %s\n", m.Shader.Hash, strings.Join(m.Shader.Defines, " "))
	}

	fmt.Fprintln(a.out, "Samplers:")
	for _, smp := range m.Samplers {
		state := "unbound"
		if smp.Texture != nil {
			state = fmt.Sprintf("%dx%d", smp.Texture.Width, smp.Texture.Height)
		}
		procgen := ""
		if smp.ProcGen {
			procgen = " procgen"
		}
		fmt.Fprintf(a.out, "  [%2d] %-14s %s (%s)%s\n", smp.Slot, smp.Name, smp.Map, state, procgen)
	}
	fmt.Fprintln(a.out, "Uniforms:")
	for _, u := range m.Uniforms {
		fmt.Fprintf(a.out, "  [%2d] %-22s %v\n", u.Slot, u.Name, u.Values)
	}
	return nil
}

func cmdList(a *app, args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	limit := fs.Int("n", 0, "Limit output to N files (0 = all)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	paths, err := a.fs.List(fs.Arg(0))
	if err != nil {
		return err
	}
	for i, p := range paths {
		if *limit > 0 && i >= *limit {
			fmt.Fprintf(a.out, "... and %d more\n", len(paths)-*limit)
			break
		}
		fmt.Fprintln(a.out, p)
	}
	return nil
}

func cmdConfig(a *app, args []string) error {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	save := fs.Bool("save", false, "Write the effective config to the user config file")
	out := fs.String("o", "", "Write the effective config to this file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch {
	case *out != "":
		if err := a.cfg.SaveTo(*out); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Saved to %s\n", *out)
	case *save:
		if err := a.cfg.Save(); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Saved to %s\n", config.DefaultPath())
	default:
		data, err := a.cfg.Marshal()
		if err != nil {
			return err
		}
		a.out.Write(data)
	}
	return nil
}
