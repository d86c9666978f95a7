package export

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Faultbox/chasm-rift/internal/engine/model"
	"github.com/Faultbox/chasm-rift/pkg/formats"
)

// materialName names the material of a render pass.
func materialName(p formats.FaceTrait) string {
	return "skin_" + p.String()
}

// WriteOBJ writes mesh as a Wavefront OBJ. Each pass group becomes an OBJ
// group using its own material from mtlFile (may be empty).
func WriteOBJ(w io.Writer, name string, mesh *model.Mesh, mtlFile string) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "# %s: %d vertices, %d triangles\n", name, len(mesh.Vertices), len(mesh.Indices)/3)
	if mtlFile != "" {
		fmt.Fprintf(bw, "mtllib %s\n", mtlFile)
	}
	fmt.Fprintf(bw, "o %s\n", name)

	for _, v := range mesh.Vertices {
		fmt.Fprintf(bw, "v %.6f %.6f %.6f\n", v.Position[0], v.Position[1], v.Position[2])
	}
	for _, v := range mesh.Vertices {
		// OBJ texture space has V pointing up.
		fmt.Fprintf(bw, "vt %.6f %.6f\n", v.TexCoord[0], 1-v.TexCoord[1])
	}
	for _, v := range mesh.Vertices {
		fmt.Fprintf(bw, "vn %.6f %.6f %.6f\n", v.Normal[0], v.Normal[1], v.Normal[2])
	}

	for _, g := range mesh.Groups {
		fmt.Fprintf(bw, "g %s\n", g.Pass)
		if mtlFile != "" {
			fmt.Fprintf(bw, "usemtl %s\n", materialName(g.Pass))
		}
		end := g.StartIndex + g.IndexCount
		for i := g.StartIndex; i+2 < end; i += 3 {
			// OBJ indices are 1-based.
			a, b, c := mesh.Indices[i]+1, mesh.Indices[i+1]+1, mesh.Indices[i+2]+1
			fmt.Fprintf(bw, "f %d/%d/%d %d/%d/%d %d/%d/%d\n", a, a, a, b, b, b, c, c, c)
		}
	}
	return bw.Flush()
}

// WriteMTL writes one material per pass group, textured with textureFile
// and with the pass opacity as dissolve.
func WriteMTL(w io.Writer, mesh *model.Mesh, textureFile string) error {
	bw := bufio.NewWriter(w)
	for _, g := range mesh.Groups {
		fmt.Fprintf(bw, "newmtl %s\n", materialName(g.Pass))
		fmt.Fprintf(bw, "Kd 1.000000 1.000000 1.000000\n")
		fmt.Fprintf(bw, "d %.6f\n", g.Opacity)
		if textureFile != "" {
			fmt.Fprintf(bw, "map_Kd %s\n", textureFile)
		}
		fmt.Fprintln(bw)
	}
	return bw.Flush()
}

// SaveOBJ writes base.obj and base.mtl into dir. The material references
// textureFile by name, which should sit next to the OBJ.
func SaveOBJ(dir, base string, mesh *model.Mesh, textureFile string) (string, error) {
	if mesh == nil {
		return "", fmt.Errorf("no geometry to export")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	mtlName := base + ".mtl"
	if err := writeFile(filepath.Join(dir, mtlName), func(w io.Writer) error {
		return WriteMTL(w, mesh, textureFile)
	}); err != nil {
		return "", err
	}

	objPath := filepath.Join(dir, base+".obj")
	if err := writeFile(objPath, func(w io.Writer) error {
		return WriteOBJ(w, base, mesh, mtlName)
	}); err != nil {
		return "", err
	}
	return objPath, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
