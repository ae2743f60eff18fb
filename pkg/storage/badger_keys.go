package storage

import "encoding/binary"

// Key prefixes for BadgerDB storage organization. Single-byte prefixes
// keep every key family in its own lexicographic range so a prefix scan
// never has to skip over unrelated rows.
const (
	prefixMeta       = byte(0x00) // meta:name -> uint64 BE counter
	prefixVertex     = byte(0x01) // vertex:id -> type name bytes
	prefixOutbound   = byte(0x02) // outbound:id:ts:otherID:type -> empty
	prefixInbound    = byte(0x03) // inbound:id:ts:otherID:type -> empty
	prefixVertexProp = byte(0x04) // vprop:id:0x00:name -> JSON(Json)
	prefixEdgeProp   = byte(0x05) // eprop:outboundID:0x00:type:0x00:inboundID:0x00:name -> JSON(Json)
)

const (
	metaNextVertexID = "next_vertex_id"
	metaNextTS       = "next_ts"
)

func putUint64(b []byte, v uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, v)
	return append(b, buf...)
}

func metaKey(name string) []byte {
	return append([]byte{prefixMeta}, []byte(name)...)
}

func vertexKey(id uint64) []byte {
	return putUint64([]byte{prefixVertex}, id)
}

// adjacencyKey builds the big-endian key used by both adjacency index
// families: fixed-width (id, ts, otherID) so byte-order comparison equals
// numeric comparison, followed by the variable-length type name so a
// prefix scan at (id) or (id, ts) is always a contiguous key range.
func adjacencyKey(prefix byte, id uint64, ts int64, otherID uint64, typ string) []byte {
	key := putUint64([]byte{prefix}, id)
	key = putUint64(key, uint64(ts))
	key = putUint64(key, otherID)
	return append(key, []byte(typ)...)
}

func outboundKey(outboundID uint64, ts int64, inboundID uint64, typ string) []byte {
	return adjacencyKey(prefixOutbound, outboundID, ts, inboundID, typ)
}

func inboundKey(inboundID uint64, ts int64, outboundID uint64, typ string) []byte {
	return adjacencyKey(prefixInbound, inboundID, ts, outboundID, typ)
}

func adjacencyPrefix(prefix byte, id uint64) []byte {
	return putUint64([]byte{prefix}, id)
}

// decodeAdjacencyKey recovers (ts, otherID, type) from a key produced by
// adjacencyKey, given the key already matched adjacencyPrefix(prefix, id).
func decodeAdjacencyKey(key []byte) (ts int64, otherID uint64, typ string) {
	ts = int64(binary.BigEndian.Uint64(key[9:17]))
	otherID = binary.BigEndian.Uint64(key[17:25])
	typ = string(key[25:])
	return
}

func vertexPropKey(vertexID uint64, name string) []byte {
	key := putUint64([]byte{prefixVertexProp}, vertexID)
	key = append(key, 0x00)
	return append(key, []byte(name)...)
}

func vertexPropPrefix(vertexID uint64) []byte {
	key := putUint64([]byte{prefixVertexProp}, vertexID)
	return append(key, 0x00)
}

func edgePropKey(outboundID uint64, typ string, inboundID uint64, name string) []byte {
	key := putUint64([]byte{prefixEdgeProp}, outboundID)
	key = append(key, 0x00)
	key = append(key, []byte(typ)...)
	key = append(key, 0x00)
	key = putUint64(key, inboundID)
	key = append(key, 0x00)
	return append(key, []byte(name)...)
}

func edgePropPrefix(outboundID uint64, typ string, inboundID uint64) []byte {
	key := putUint64([]byte{prefixEdgeProp}, outboundID)
	key = append(key, 0x00)
	key = append(key, []byte(typ)...)
	key = append(key, 0x00)
	key = putUint64(key, inboundID)
	return append(key, 0x00)
}
