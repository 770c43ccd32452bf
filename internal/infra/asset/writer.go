package asset

import (
	"fmt"
	"os"
	"path/filepath"
)

// FSWriter はメディアディレクトリ配下に生成物を書き出す。
// 返すパスはメディアルートからの相対パス（DBにはこれを保存する）。
type FSWriter struct {
	MediaRoot string
}

func NewFSWriter(mediaRoot string) *FSWriter {
	return &FSWriter{MediaRoot: mediaRoot}
}

// qrcodes/qr_<注文ID>.png に保存
func (w *FSWriter) WriteQRCode(orderID int64, png []byte) (string, error) {
	rel := filepath.Join("qrcodes", fmt.Sprintf("qr_%d.png", orderID))
	if err := w.write(rel, png); err != nil {
		return "", err
	}
	return rel, nil
}

// receipts/receipt_order_<注文ID>.pdf に保存
func (w *FSWriter) WriteReceipt(orderID int64, pdf []byte) (string, error) {
	rel := filepath.Join("receipts", fmt.Sprintf("receipt_order_%d.pdf", orderID))
	if err := w.write(rel, pdf); err != nil {
		return "", err
	}
	return rel, nil
}

// Resolve は相対参照をメディアルート配下の実パスに変換する。
func (w *FSWriter) Resolve(rel string) string {
	return filepath.Join(w.MediaRoot, rel)
}

func (w *FSWriter) write(rel string, data []byte) error {
	out := filepath.Join(w.MediaRoot, rel)
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return err
	}
	return os.WriteFile(out, data, 0o644)
}
