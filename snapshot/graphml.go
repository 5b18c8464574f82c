package snapshot

import (
	"context"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
)

// GraphML export of the channel graph. Node elements carry alias and color,
// edge elements carry capacity and the per-direction fee policies.

type graphML struct {
	XMLName xml.Name     `xml:"graphml"`
	XMLNS   string       `xml:"xmlns,attr"`
	Keys    []graphMLKey `xml:"key"`
	Graph   graphMLGraph `xml:"graph"`
}

type graphMLKey struct {
	ID   string `xml:"id,attr"`
	For  string `xml:"for,attr"`
	Name string `xml:"attr.name,attr"`
	Type string `xml:"attr.type,attr"`
}

type graphMLGraph struct {
	ID          string        `xml:"id,attr"`
	EdgeDefault string        `xml:"edgedefault,attr"`
	Nodes       []graphMLNode `xml:"node"`
	Edges       []graphMLEdge `xml:"edge"`
}

type graphMLNode struct {
	ID   string        `xml:"id,attr"`
	Data []graphMLData `xml:"data"`
}

type graphMLEdge struct {
	ID     string        `xml:"id,attr"`
	Source string        `xml:"source,attr"`
	Target string        `xml:"target,attr"`
	Data   []graphMLData `xml:"data"`
}

type graphMLData struct {
	Key   string `xml:"key,attr"`
	Value string `xml:",chardata"`
}

// MarshalGraphML renders the snapshot as a GraphML document.
func (s *Snapshot) MarshalGraphML() ([]byte, error) {
	doc := graphML{
		XMLNS: "http://graphml.graphdrawing.org/xmlns",
		Keys: []graphMLKey{
			{ID: "alias", For: "node", Name: "alias", Type: "string"},
			{ID: "color", For: "node", Name: "rgb_color", Type: "string"},
			{ID: "scid", For: "edge", Name: "scid", Type: "string"},
			{ID: "satoshis", For: "edge", Name: "satoshis", Type: "long"},
			{ID: "fee_base", For: "edge", Name: "fee_base_msat", Type: "long"},
			{ID: "fee_ppm", For: "edge", Name: "fee_proportional_millionths", Type: "long"},
		},
		Graph: graphMLGraph{ID: "ln", EdgeDefault: "undirected"},
	}

	for _, node := range s.Nodes() {
		entry := graphMLNode{ID: node.NodeID.String()}
		if node.Alias != "" {
			entry.Data = append(entry.Data, graphMLData{Key: "alias", Value: node.Alias})
		}
		if len(node.RGBColor) > 0 {
			entry.Data = append(entry.Data, graphMLData{Key: "color", Value: node.RGBColor.String()})
		}
		doc.Graph.Nodes = append(doc.Graph.Nodes, entry)
	}

	for _, channel := range s.Channels() {
		if len(channel.NodeID1) == 0 || len(channel.NodeID2) == 0 {
			// Policy stub without an announcement; not representable as an edge.
			continue
		}
		edge := graphMLEdge{
			ID:     channel.SCID.String(),
			Source: channel.NodeID1.String(),
			Target: channel.NodeID2.String(),
			Data: []graphMLData{
				{Key: "scid", Value: channel.SCID.String()},
			},
		}
		if channel.Satoshis > 0 {
			edge.Data = append(edge.Data, graphMLData{Key: "satoshis", Value: fmt.Sprintf("%d", channel.Satoshis)})
		}
		if policy := channel.Policies[0]; policy != nil {
			edge.Data = append(edge.Data,
				graphMLData{Key: "fee_base", Value: fmt.Sprintf("%d", policy.FeeBaseMsat)},
				graphMLData{Key: "fee_ppm", Value: fmt.Sprintf("%d", policy.FeeProportionalMillionths)})
		}
		doc.Graph.Edges = append(doc.Graph.Edges, edge)
	}

	data, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal graphml: %w", err)
	}
	return append([]byte(xml.Header), data...), nil
}

// WriteGraphML writes the GraphML document to destURL through afs, so any
// supported storage scheme works as a destination.
func (s *Snapshot) WriteGraphML(ctx context.Context, destURL string) error {
	data, err := s.MarshalGraphML()
	if err != nil {
		return err
	}
	fs := afs.New()
	if err := fs.Upload(ctx, destURL, file.DefaultFileOsMode, strings.NewReader(string(data))); err != nil {
		return fmt.Errorf("failed to write graphml to %s: %w", destURL, err)
	}
	return nil
}
