package intcodec

import "github.com/wjgreenleaf/BPCells/bytestore"

// WriteStream persists an EncodedStream as up to three named arrays under
// prefix: prefix+"_data", prefix+"_idx", and (DeltaMode only)
// prefix+"_starts" (spec §4.2's val_data/val_idx/row_starts framing).
func WriteStream(s bytestore.Store, prefix string, enc EncodedStream, chunkSize int) error {
	dataW, err := s.CreateWriteU32(prefix+"_data", chunkSize)
	if err != nil {
		return err
	}
	if err := dataW.Append(enc.ValData); err != nil {
		return err
	}
	if err := dataW.Finalize(); err != nil {
		return err
	}

	idxW, err := s.CreateWriteU32(prefix+"_idx", chunkSize)
	if err != nil {
		return err
	}
	if err := idxW.Append(enc.ValIdx); err != nil {
		return err
	}
	if err := idxW.Finalize(); err != nil {
		return err
	}

	if enc.Mode == DeltaMode {
		startsW, err := s.CreateWriteU32(prefix+"_starts", chunkSize)
		if err != nil {
			return err
		}
		if err := startsW.Append(enc.RowStarts); err != nil {
			return err
		}
		if err := startsW.Finalize(); err != nil {
			return err
		}
	}
	return nil
}

// ReadStream reads back an EncodedStream previously written by WriteStream.
// count is the true (unpadded) element count, tracked externally (e.g. via
// the outer fragment/row count) since the final chunk may be padded.
func ReadStream(s bytestore.Store, prefix string, mode Mode, count int) (EncodedStream, error) {
	valData, err := readAllU32(s, prefix+"_data")
	if err != nil {
		return EncodedStream{}, err
	}
	valIdx, err := readAllU32(s, prefix+"_idx")
	if err != nil {
		return EncodedStream{}, err
	}
	var rowStarts []uint32
	if mode == DeltaMode {
		rowStarts, err = readAllU32(s, prefix+"_starts")
		if err != nil {
			return EncodedStream{}, err
		}
	}
	return EncodedStream{Mode: mode, Count: count, ValData: valData, ValIdx: valIdx, RowStarts: rowStarts}, nil
}

func readAllU32(s bytestore.Store, name string) ([]uint32, error) {
	arr, err := s.OpenReadU32(name)
	if err != nil {
		return nil, err
	}
	defer arr.Close()
	out := make([]uint32, arr.Len())
	if _, err := arr.ReadAt(0, out); err != nil {
		return nil, err
	}
	return out, nil
}
