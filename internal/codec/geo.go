package codec

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Point, LineString and Polygon are minimal geospatial value types: enough
// to round-trip well-known-text and GeoJSON without pulling in a full
// geometry library, matching the spec's "accept WKT and GeoJSON on load,
// emit WKT on unload" contract.
type Point struct{ X, Y float64 }

type LineString struct{ Points []Point }

type Polygon struct{ Rings [][]Point }

func formatCoord(x, y float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64) + " " + strconv.FormatFloat(y, 'g', -1, 64)
}

func (p Point) WKT() string {
	return fmt.Sprintf("POINT (%s)", formatCoord(p.X, p.Y))
}

func (l LineString) WKT() string {
	parts := make([]string, len(l.Points))
	for i, p := range l.Points {
		parts[i] = formatCoord(p.X, p.Y)
	}
	return fmt.Sprintf("LINESTRING (%s)", strings.Join(parts, ", "))
}

func (poly Polygon) WKT() string {
	rings := make([]string, len(poly.Rings))
	for i, ring := range poly.Rings {
		parts := make([]string, len(ring))
		for j, p := range ring {
			parts[j] = formatCoord(p.X, p.Y)
		}
		rings[i] = "(" + strings.Join(parts, ", ") + ")"
	}
	return fmt.Sprintf("POLYGON (%s)", strings.Join(rings, ", "))
}

func parsePoints(body string) ([]Point, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, nil
	}
	parts := strings.Split(body, ",")
	points := make([]Point, 0, len(parts))
	for _, p := range parts {
		fields := strings.Fields(strings.TrimSpace(p))
		if len(fields) < 2 {
			return nil, fmt.Errorf("geo: malformed coordinate %q", p)
		}
		x, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, fmt.Errorf("geo: malformed coordinate %q: %w", p, err)
		}
		y, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("geo: malformed coordinate %q: %w", p, err)
		}
		points = append(points, Point{X: x, Y: y})
	}
	return points, nil
}

func wktBody(s, prefix string) (string, bool) {
	s = strings.TrimSpace(s)
	up := strings.ToUpper(s)
	if !strings.HasPrefix(up, prefix) {
		return "", false
	}
	body := strings.TrimSpace(s[len(prefix):])
	body = strings.TrimPrefix(body, "(")
	body = strings.TrimSuffix(body, ")")
	return body, true
}

func parsePointWKTOrJSON(s string) (Point, error) {
	if body, ok := wktBody(s, "POINT"); ok {
		pts, err := parsePoints(body)
		if err != nil || len(pts) != 1 {
			return Point{}, fmt.Errorf("geo: malformed point %q", s)
		}
		return pts[0], nil
	}
	var gj struct {
		Type        string    `json:"type"`
		Coordinates []float64 `json:"coordinates"`
	}
	if err := json.Unmarshal([]byte(s), &gj); err != nil || len(gj.Coordinates) != 2 {
		return Point{}, fmt.Errorf("geo: cannot parse point %q", s)
	}
	return Point{X: gj.Coordinates[0], Y: gj.Coordinates[1]}, nil
}

func parseLineStringWKTOrJSON(s string) (LineString, error) {
	if body, ok := wktBody(s, "LINESTRING"); ok {
		pts, err := parsePoints(body)
		if err != nil {
			return LineString{}, err
		}
		return LineString{Points: pts}, nil
	}
	var gj struct {
		Type        string      `json:"type"`
		Coordinates [][]float64 `json:"coordinates"`
	}
	if err := json.Unmarshal([]byte(s), &gj); err != nil {
		return LineString{}, fmt.Errorf("geo: cannot parse linestring %q", s)
	}
	pts := make([]Point, len(gj.Coordinates))
	for i, c := range gj.Coordinates {
		if len(c) != 2 {
			return LineString{}, fmt.Errorf("geo: malformed linestring coordinate")
		}
		pts[i] = Point{X: c[0], Y: c[1]}
	}
	return LineString{Points: pts}, nil
}

func parsePolygonWKTOrJSON(s string) (Polygon, error) {
	if body, ok := wktBody(s, "POLYGON"); ok {
		body = strings.TrimSpace(body)
		ringStrs := strings.Split(body, "),")
		rings := make([][]Point, 0, len(ringStrs))
		for _, r := range ringStrs {
			r = strings.TrimSpace(r)
			r = strings.TrimPrefix(r, "(")
			r = strings.TrimSuffix(r, ")")
			pts, err := parsePoints(r)
			if err != nil {
				return Polygon{}, err
			}
			rings = append(rings, pts)
		}
		return Polygon{Rings: rings}, nil
	}
	var gj struct {
		Type        string          `json:"type"`
		Coordinates [][][]float64   `json:"coordinates"`
	}
	if err := json.Unmarshal([]byte(s), &gj); err != nil {
		return Polygon{}, fmt.Errorf("geo: cannot parse polygon %q", s)
	}
	rings := make([][]Point, len(gj.Coordinates))
	for i, ring := range gj.Coordinates {
		pts := make([]Point, len(ring))
		for j, c := range ring {
			if len(c) != 2 {
				return Polygon{}, fmt.Errorf("geo: malformed polygon coordinate")
			}
			pts[j] = Point{X: c[0], Y: c[1]}
		}
		rings[i] = pts
	}
	return Polygon{Rings: rings}, nil
}

func geoStringCodec(ctx *ConversionContext, internal InternalType) Codec {
	return Codec{
		External: ExternalString,
		Internal: internal,
		ExternalToInternal: func(e any) (any, error) {
			s, _ := e.(string)
			if v, ok := ctx.loadNullFromString(s, internal); ok {
				return v, nil
			}
			switch internal {
			case InternalPoint:
				return parsePointWKTOrJSON(s)
			case InternalLineStr:
				return parseLineStringWKTOrJSON(s)
			case InternalPolygon:
				return parsePolygonWKTOrJSON(s)
			default:
				return nil, fmt.Errorf("geo: unsupported internal type %q", internal)
			}
		},
		InternalToExternal: func(i any) (any, error) {
			if IsNull(i) {
				return ctx.unloadNull(ExternalString), nil
			}
			switch v := i.(type) {
			case Point:
				return v.WKT(), nil
			case LineString:
				return v.WKT(), nil
			case Polygon:
				return v.WKT(), nil
			default:
				return nil, fmt.Errorf("geo: unsupported value %T", i)
			}
		},
	}
}
