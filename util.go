package neoscript

import "fmt"

func CatchPanicOrError(f func() error) error {
	var err error
	func() {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			var ok bool
			if err, ok = r.(error); !ok {
				err = fmt.Errorf("%v", r)
			}
		}()
		err = f()
	}()
	return err
}

// ReverseBytes returns reversed copy of data
func ReverseBytes(data []byte) []byte {
	ret := make([]byte, len(data))
	for i := range data {
		ret[len(data)-1-i] = data[i]
	}
	return ret
}
