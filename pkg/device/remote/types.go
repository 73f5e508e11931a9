package remote

import "image"

type EmptyResponse struct {
}

type WriteAtRequest struct {
	Off  int64
	Data []byte
}

type WriteAtResponse struct {
	N int
}

type FillRequest struct {
	Rect image.Rectangle
	On   bool
}

type CopyRequest struct {
	Dst image.Point
	Src image.Rectangle
}

type BlitRequest struct {
	At    image.Point
	Image []byte // PNG
}
