package scene

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/df07/obscura/pkg/renderer"
)

// ErrUnknownScene is returned when a scene ID matches no built-in scene or file
var ErrUnknownScene = errors.New("unknown scene")

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier
	Name        string `json:"name"`        // Scene name
	Description string `json:"description"` // Optional description
	Group       string `json:"group"`       // Grouping category
	Type        string `json:"type"`        // "builtin" or "file"
	FilePath    string `json:"filePath"`    // Path to the description (file type only)
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string      `json:"name"`
	Scenes []SceneInfo `json:"scenes"`
}

// ScenesResponse represents the complete response for /api/scenes
type ScenesResponse struct {
	Groups []SceneGroup `json:"groups"`
}

const builtInGroup = "Built-in Scenes"

type builtInScene struct {
	info   SceneInfo
	create func(...renderer.CameraConfig) *Scene
}

var builtInScenes = []builtInScene{
	{SceneInfo{ID: "default", Name: "Default Scene", Description: "Green sphere resting on a white plane"}, NewDefaultScene},
	{SceneInfo{ID: "spheres", Name: "Spheres", Description: "One sphere of each material on a grey floor"}, NewSpheresScene},
	{SceneInfo{ID: "quadrics", Name: "Quadrics", Description: "Cylinder, ellipsoid and hyperboloid"}, NewQuadricsScene},
	{SceneInfo{ID: "horizon", Name: "Horizon", Description: "Mirror floor under a sunset sky"}, NewHorizonScene},
}

// FindScenesDir returns the first scenes directory found, or "" if there is none
func FindScenesDir() string {
	for _, path := range []string{"scenes", "../scenes"} {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			return path
		}
	}
	return ""
}

// Create builds the scene with the given ID. IDs are built-in names,
// "file:<name>" for a description in scenesDir, or a path to a .scene file.
func Create(id, scenesDir string, cameraOverrides ...renderer.CameraConfig) (*Scene, error) {
	for _, builtIn := range builtInScenes {
		if builtIn.info.ID == id {
			return builtIn.create(cameraOverrides...), nil
		}
	}

	var filename string
	switch {
	case strings.HasPrefix(id, "file:") && scenesDir != "":
		filename = filepath.Join(scenesDir, strings.TrimPrefix(id, "file:")+".scene")
	case strings.HasSuffix(id, ".scene"):
		filename = id
	default:
		return nil, fmt.Errorf("%q: %w", id, ErrUnknownScene)
	}

	if _, err := os.Stat(filename); err != nil {
		return nil, fmt.Errorf("%q: %w", id, ErrUnknownScene)
	}

	s, err := LoadFile(filename)
	if err != nil {
		return nil, err
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(filename), ".scene")
	}
	s.CameraConfig = cameraConfig(s.CameraConfig, cameraOverrides)
	return s, nil
}

// ListFileScenes scans dir for .scene files and reads their metadata
func ListFileScenes(dir string) ([]SceneInfo, error) {
	if dir == "" {
		return []SceneInfo{}, nil
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.scene"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %v", err)
	}

	scenes := []SceneInfo{}
	for _, filePath := range files {
		sceneInfo, err := ParseSceneMetadata(filePath)
		if err != nil {
			// Log warning but continue processing other files
			fmt.Printf("Warning: failed to parse metadata for %s: %v\n", filePath, err)
			continue
		}
		scenes = append(scenes, sceneInfo)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].Name < scenes[j].Name
	})

	return scenes, nil
}

// ParseSceneMetadata extracts metadata from the comments heading a scene file:
//
//	// Scene: Example
//	// Description: A sphere on a plane
//	// Group: Examples
func ParseSceneMetadata(filePath string) (SceneInfo, error) {
	nameWithoutExt := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))

	sceneInfo := SceneInfo{
		ID:       "file:" + nameWithoutExt,
		Name:     titleCase(nameWithoutExt),
		Group:    "Scene Files",
		Type:     "file",
		FilePath: filePath,
	}

	file, err := os.Open(filePath)
	if err != nil {
		// Unreadable files still get listed with fallback values
		return sceneInfo, nil
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Stop parsing at first non-comment line
		if !strings.HasPrefix(line, "//") {
			break
		}

		content := strings.TrimSpace(strings.TrimPrefix(line, "//"))
		if key, value, found := strings.Cut(content, ":"); found {
			value = strings.TrimSpace(value)
			switch key {
			case "Scene":
				sceneInfo.Name = value
			case "Description":
				sceneInfo.Description = value
			case "Group":
				sceneInfo.Group = value
			}
		}
	}

	return sceneInfo, scanner.Err()
}

// ListAllScenes returns both built-in and file scenes, grouped by category
func ListAllScenes(scenesDir string) (ScenesResponse, error) {
	var response ScenesResponse

	var allScenes []SceneInfo
	for _, builtIn := range builtInScenes {
		info := builtIn.info
		info.Group = builtInGroup
		info.Type = "builtin"
		allScenes = append(allScenes, info)
	}

	fileScenes, err := ListFileScenes(scenesDir)
	if err != nil {
		return response, fmt.Errorf("failed to list scene files: %v", err)
	}
	allScenes = append(allScenes, fileScenes...)

	// Group scenes by their Group field
	groupMap := make(map[string][]SceneInfo)
	for _, info := range allScenes {
		groupMap[info.Group] = append(groupMap[info.Group], info)
	}

	// Built-in first, then alphabetical
	var groupNames []string
	for groupName := range groupMap {
		if groupName != builtInGroup {
			groupNames = append(groupNames, groupName)
		}
	}
	sort.Strings(groupNames)

	response.Groups = append(response.Groups, SceneGroup{
		Name:   builtInGroup,
		Scenes: groupMap[builtInGroup],
	})
	for _, groupName := range groupNames {
		response.Groups = append(response.Groups, SceneGroup{
			Name:   groupName,
			Scenes: groupMap[groupName],
		})
	}

	return response, nil
}

// titleCase converts a filename-style string to title case
// e.g., "sunset-glass" -> "Sunset Glass"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}
	return strings.Join(words, " ")
}
