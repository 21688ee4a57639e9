package terrain

import (
	"github.com/annel0/seabed-terrain/internal/biome"
	"github.com/annel0/seabed-terrain/internal/vec"
)

// MeshBuffer — буферы вершин, UV и индексов сетки одного чанка.
// Инварианты: len(Indices) кратна 3, каждый индекс < len(Vertices).
type MeshBuffer struct {
	Vertices []vec.Vec3Float
	UVs      []vec.Vec2Float
	Indices  []int32
}

// MeshBuilder строит сетку чанка, вызывая HeightBlender для каждой вершины.
type MeshBuilder struct {
	chunkSize        int
	heightMultiplier float64
	blender          *HeightBlender
	lod              *LODSelector
}

// NewMeshBuilder создаёт построитель сеток
func NewMeshBuilder(chunkSize int, heightMultiplier float64, blender *HeightBlender, lod *LODSelector) *MeshBuilder {
	return &MeshBuilder{
		chunkSize:        chunkSize,
		heightMultiplier: heightMultiplier,
		blender:          blender,
		lod:              lod,
	}
}

// Build строит буфер сетки чанка с разрешением от LOD-селектора:
// (resolution+1)^2 вершин на локальной сетке [0, chunkSize], высота из
// смесителя, умноженная на множитель высоты. Швы между соседними чанками
// разных LOD не сшиваются.
// TODO: сшивание вершин на границах LOD-ступеней.
func (mb *MeshBuilder) Build(coord vec.Vec2, data *biome.ChunkData) *MeshBuffer {
	resolution := mb.lod.Resolution(coord)
	return mb.BuildWithResolution(coord, data, resolution)
}

// BuildWithResolution строит сетку с явно заданным разрешением
func (mb *MeshBuilder) BuildWithResolution(coord vec.Vec2, data *biome.ChunkData, resolution int) *MeshBuffer {
	step := float64(mb.chunkSize) / float64(resolution)
	vertexCount := (resolution + 1) * (resolution + 1)

	mesh := &MeshBuffer{
		Vertices: make([]vec.Vec3Float, 0, vertexCount),
		UVs:      make([]vec.Vec2Float, 0, vertexCount),
		Indices:  make([]int32, 0, resolution*resolution*6),
	}

	for z := 0; z <= resolution; z++ {
		for x := 0; x <= resolution; x++ {
			xpos := float64(x) * step
			zpos := float64(z) * step

			worldX := float64(coord.X*mb.chunkSize) + xpos
			worldZ := float64(coord.Y*mb.chunkSize) + zpos

			height := mb.blender.HeightAt(worldX, worldZ, data)

			mesh.Vertices = append(mesh.Vertices, vec.Vec3Float{
				X: xpos,
				Y: height * mb.heightMultiplier,
				Z: zpos,
			})
			mesh.UVs = append(mesh.UVs, vec.Vec2Float{
				X: float64(x) / float64(resolution),
				Y: float64(z) / float64(resolution),
			})
		}
	}

	// Каждый квад — два треугольника с согласованным порядком обхода
	stride := int32(resolution + 1)
	for z := 0; z < resolution; z++ {
		for x := 0; x < resolution; x++ {
			i := int32(z)*stride + int32(x)
			mesh.Indices = append(mesh.Indices,
				i, i+1, i+stride,
				i+1, i+stride+1, i+stride,
			)
		}
	}

	return mesh
}
